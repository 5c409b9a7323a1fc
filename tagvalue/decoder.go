// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tagvalue

import (
	"bytes"
	"math"

	"github.com/packetd/fixcodec/datatype"
	"github.com/packetd/fixcodec/dictionary"
	"github.com/packetd/fixcodec/internal/splitio"
)

// Decoder 一次性解码完整的 tag-value 消息
//
// 非并发安全 同一时刻仅允许一个调用方使用
type Decoder struct {
	dict *dictionary.Dictionary
	cfg  Config
	msg  *Message
	rd   *splitio.Reader
}

// NewDecoder 创建并返回 *Decoder 实例 使用 DefaultConfig
func NewDecoder(dict *dictionary.Dictionary) *Decoder {
	return &Decoder{
		dict: dict,
		cfg:  DefaultConfig(),
		msg:  newMessage(dict),
		rd:   splitio.NewReader(nil),
	}
}

// Config 返回配置引用 仅允许在两次 Decode 之间修改
func (d *Decoder) Config() *Config {
	return &d.cfg
}

// SetConfig 替换配置
func (d *Decoder) SetConfig(cfg Config) {
	d.cfg = cfg
}

// Dictionary 返回解码器使用的字典
func (d *Decoder) Dictionary() *dictionary.Dictionary {
	return d.dict
}

// Buffered 创建共享字典以及配置副本的 *BufferedDecoder
func (d *Decoder) Buffered() *BufferedDecoder {
	dec := NewDecoder(d.dict)
	dec.cfg = d.cfg
	return newBufferedDecoder(dec)
}

// header 描述 BeginString(8) 以及 BodyLength(9) 字段的位置
type header struct {
	beginString []byte
	rawLength   []byte
	bodyLength  int
	bodyStart   int
}

// parseHeader 解析消息首部
//
// 当 b 不足以包含完整首部时 complete 返回 false 且 err 为空
func parseHeader(b []byte, sep byte) (h header, complete bool, err error) {
	if len(b) < 2 {
		return h, false, nil
	}
	if b[0] != '8' || b[1] != '=' {
		return h, false, formatError("first field must be BeginString(8)")
	}

	end := bytes.IndexByte(b[2:], sep)
	if end < 0 {
		return h, false, nil
	}
	end += 2
	if end == 2 {
		return h, false, formatError("empty BeginString(8)")
	}
	h.beginString = b[2:end]

	rest := b[end+1:]
	if len(rest) < 2 {
		return h, false, nil
	}
	if rest[0] != '9' || rest[1] != '=' {
		return h, false, formatError("second field must be BodyLength(9)")
	}

	n := bytes.IndexByte(rest[2:], sep)
	if n < 0 {
		return h, false, nil
	}
	length, perr := datatype.Uint(rest[2 : n+2])
	if perr != nil || length > math.MaxInt32 {
		return h, false, formatError("invalid BodyLength(9) %q", rest[2:n+2])
	}

	h.rawLength = rest[2 : n+2]
	h.bodyLength = int(length)
	h.bodyStart = end + 1 + n + 3
	return h, true, nil
}

// Decode 解码一条完整的消息
//
// 返回的 *Message 由解码器复用 下一次调用 Decode 后失效
// 任何错误都不会影响解码器的后续使用
func (d *Decoder) Decode(b []byte) (*Message, error) {
	d.msg.reset()
	d.msg.assoc = d.cfg.DecodeAssoc
	d.msg.seq = d.cfg.DecodeSeq

	sep := d.cfg.Separator
	h, complete, err := parseHeader(b, sep)
	if err != nil {
		return nil, err
	}
	if !complete {
		return nil, formatError("incomplete header")
	}

	csStart := h.bodyStart + h.bodyLength
	if len(b) < csStart+checksumFieldSize {
		return nil, formatError("BodyLength(9) %d exceeds message", h.bodyLength)
	}
	if len(b) != csStart+checksumFieldSize {
		return nil, formatError("trailing bytes after CheckSum(10)")
	}
	if b[csStart-1] != sep {
		return nil, formatError("BodyLength(9) %d does not end at a field boundary", h.bodyLength)
	}

	cs := b[csStart:]
	if cs[0] != '1' || cs[1] != '0' || cs[2] != '=' || cs[6] != sep {
		return nil, formatError("missing CheckSum(10) at offset %d", csStart)
	}
	declared, ok := parseChecksum(cs[3:6])
	if !ok {
		return nil, formatError("invalid CheckSum(10) %q", cs[3:6])
	}
	if d.cfg.VerifyChecksum {
		if actual := Checksum(b[:csStart]); actual != declared {
			digits := FormatChecksum(actual)
			return nil, &Error{
				Kind: KindChecksum,
				Msg:  string(digits[:]) + " != " + string(cs[3:6]),
			}
		}
	}

	if !d.cfg.acceptVersion(h.beginString) {
		return nil, &Error{Kind: KindUnsupportedVersion, Version: string(h.beginString)}
	}

	m := d.msg
	m.raw = b
	m.bodyLength = h.bodyLength
	m.checksum = declared
	m.append(dictionary.TagBeginString, h.beginString)
	m.append(dictionary.TagBodyLength, h.rawLength)

	if err := d.decodeBody(b[h.bodyStart:csStart]); err != nil {
		m.reset()
		return nil, err
	}
	m.append(dictionary.TagCheckSum, cs[3:6])
	return m, nil
}

func (d *Decoder) decodeBody(body []byte) error {
	sep := d.cfg.Separator
	d.rd.Reset(body)

	var (
		dataTag uint32
		dataLen int
	)
	for !d.rd.EOF() {
		raw, ok := d.rd.ReadUntil('=')
		if !ok {
			return formatError("missing '=' at body offset %d", d.rd.Offset())
		}
		tag, ok := parseTag(raw)
		if !ok {
			return formatError("invalid tag %q", raw)
		}

		var value []byte
		if dataTag != 0 && tag == dataTag {
			if value, ok = d.rd.ReadN(dataLen); !ok {
				return formatError("data field %d exceeds body", tag)
			}
			if s, ok := d.rd.ReadN(1); !ok || s[0] != sep {
				return formatError("data field %d length mismatch", tag)
			}
		} else if value, ok = d.rd.ReadUntil(sep); !ok {
			return formatError("unterminated field %d", tag)
		}
		dataTag, dataLen = 0, 0

		d.msg.append(tag, value)
		if d.dict == nil {
			continue
		}
		next := d.dict.DataTag(tag)
		if next == 0 {
			continue
		}
		n, err := datatype.Uint(value)
		if err != nil || n > uint64(len(body)) {
			return formatError("invalid length %q for data field %d", value, next)
		}
		dataTag, dataLen = next, int(n)
	}
	return nil
}

// parseTag 解析 tag 仅允许 ASCII 数字 非 0 且不超过 uint32
func parseTag(b []byte) (uint32, bool) {
	if len(b) == 0 || len(b) > 10 {
		return 0, false
	}

	var n uint64
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + uint64(c-'0')
	}
	if n == 0 || n > math.MaxUint32 {
		return 0, false
	}
	return uint32(n), true
}
