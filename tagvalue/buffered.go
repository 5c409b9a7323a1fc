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
	"slices"

	"github.com/valyala/bytebufferpool"
)

// State 记录着 BufferedDecoder 的处理状态
type State uint8

const (
	StateAwaitingHeader State = iota
	StateAwaitingBody
	StateAwaitingChecksum
	StateReady
)

func (s State) String() string {
	switch s {
	case StateAwaitingHeader:
		return "AwaitingHeader"
	case StateAwaitingBody:
		return "AwaitingBody"
	case StateAwaitingChecksum:
		return "AwaitingChecksum"
	case StateReady:
		return "Ready"
	}
	return "Unknown"
}

const (
	// minMessageSize 最短的合法消息 `8=X|9=0|10=NNN|` 作为首次读取的字节数
	minMessageSize = 15

	// headerStep 首部未完整时追加读取的字节数
	// 首部结束位置至少在已读字节之后 其后还有完整的 CheckSum 字段 因此不会读过消息边界
	headerStep = checksumFieldSize + 1

	// maxHeaderSize 首部允许的最大长度
	maxHeaderSize = 64
)

// BufferedDecoder 增量解码器
//
// 解码器本身不执行任何 I/O 调用方按以下流程驱动
//
//	for {
//		buf := dec.SupplyBuffer()
//		io.ReadFull(r, buf)
//		msg, err := dec.CurrentMessage()
//		if msg != nil {
//			handle(msg)
//			dec.Clear()
//		}
//	}
//
// SupplyBuffer 返回的区域必须被完整填充后才能调用其他方法 部分填充属于调用方违约 结果未定义
type BufferedDecoder struct {
	dec   *Decoder
	buf   *bytebufferpool.ByteBuffer
	state State
	need  int
	msg   *Message
}

func newBufferedDecoder(dec *Decoder) *BufferedDecoder {
	return &BufferedDecoder{
		dec:  dec,
		buf:  bytebufferpool.Get(),
		need: minMessageSize,
	}
}

// Config 返回配置引用 仅允许在两条消息之间修改
func (bd *BufferedDecoder) Config() *Config {
	return bd.dec.Config()
}

// State 返回当前状态
func (bd *BufferedDecoder) State() State {
	return bd.state
}

// NumBytesRequired 返回下一次 SupplyBuffer 区域的大小 Ready 状态下为 0
func (bd *BufferedDecoder) NumBytesRequired() int {
	if bd.state == StateReady {
		return 0
	}
	return bd.need
}

// SupplyBuffer 返回调用方需要完整填充的区域
//
// Ready 状态下返回 nil 需要先调用 Clear
func (bd *BufferedDecoder) SupplyBuffer() []byte {
	if bd.state == StateReady {
		return nil
	}
	if bd.buf == nil {
		bd.buf = bytebufferpool.Get()
	}

	n := len(bd.buf.B)
	bd.buf.B = slices.Grow(bd.buf.B, bd.need)[:n+bd.need]
	return bd.buf.B[n:]
}

// CurrentMessage 推进状态机
//
// 仍需更多字节时返回 (nil, nil) 消息完整后返回 *Message 并进入 Ready 状态
// 出现错误时状态重置为 AwaitingHeader 已接收的字节会被丢弃
func (bd *BufferedDecoder) CurrentMessage() (*Message, error) {
	msg, err := bd.advance()
	if err != nil {
		bd.Clear()
		return nil, err
	}
	return msg, nil
}

func (bd *BufferedDecoder) advance() (*Message, error) {
	if bd.buf == nil {
		return nil, nil
	}

	b := bd.buf.B
	switch bd.state {
	case StateReady:
		return bd.msg, nil

	case StateAwaitingHeader:
		h, complete, err := parseHeader(b, bd.dec.cfg.Separator)
		if err != nil {
			return nil, err
		}
		if !complete {
			if len(b) >= maxHeaderSize {
				return nil, formatError("header exceeds %d bytes", maxHeaderSize)
			}
			bd.need = headerStep
			return nil, nil
		}

		csStart := h.bodyStart + h.bodyLength
		total := csStart + checksumFieldSize
		if limit := bd.dec.cfg.MaxMessageSize; limit > 0 && total > limit {
			return nil, formatError("message size %d exceeds limit %d", total, limit)
		}
		if len(b) < csStart {
			bd.state = StateAwaitingBody
			bd.need = csStart - len(b)
			return nil, nil
		}

		bd.state = StateAwaitingChecksum
		bd.need = total - len(b)
		if bd.need == 0 {
			return bd.decode()
		}
		return nil, nil

	case StateAwaitingBody:
		bd.state = StateAwaitingChecksum
		bd.need = checksumFieldSize
		return nil, nil

	case StateAwaitingChecksum:
		return bd.decode()
	}
	return nil, nil
}

func (bd *BufferedDecoder) decode() (*Message, error) {
	msg, err := bd.dec.Decode(bd.buf.B)
	if err != nil {
		return nil, err
	}

	bd.state = StateReady
	bd.need = 0
	bd.msg = msg
	return msg, nil
}

// Message 返回当前消息 仅在 Ready 状态下有效 其余状态返回 nil
func (bd *BufferedDecoder) Message() *Message {
	if bd.state != StateReady {
		return nil
	}
	return bd.msg
}

// Clear 重置为 AwaitingHeader 状态
//
// 之前返回的 Message 以及 Field 均失效 其底层存储会被下一条消息复用
func (bd *BufferedDecoder) Clear() {
	if bd.buf != nil {
		bd.buf.Reset()
	}
	if bd.msg != nil {
		bd.msg.reset()
		bd.msg = nil
	}
	bd.state = StateAwaitingHeader
	bd.need = minMessageSize
}

// Free 归还底层存储 之后仍可继续使用 会重新申请存储
func (bd *BufferedDecoder) Free() {
	bd.Clear()
	if bd.buf != nil {
		bytebufferpool.Put(bd.buf)
		bd.buf = nil
	}
}
