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

package sofh

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"github.com/packetd/fixcodec/internal/zerocopy"
)

// HeaderSize SOFH 首部固定长度
//
// ┌─────────────────────────┬──────────────────────┐
// │ Message Length (4B BE)  │ Encoding Type (2B BE) │
// └─────────────────────────┴──────────────────────┘
//
// Message Length 包含首部自身
const HeaderSize = 6

// ErrFormat 帧长度与剩余数据不一致
var ErrFormat = errors.New("sofh: format error")

// Frame SOFH 帧
//
// Payload 引用底层 buffer 仅在 buffer 被复用之前有效
type Frame struct {
	EncodingType EncodingType
	Payload      []byte
}

// Len 返回帧的总长度 包含首部
func (f Frame) Len() int {
	return HeaderSize + len(f.Payload)
}

func parseHeader(b []byte) (uint32, EncodingType) {
	return binary.BigEndian.Uint32(b[0:4]), EncodingType(binary.BigEndian.Uint16(b[4:6]))
}

// Decode 从完整的 buffer 中解析一个帧 声明长度必须与 buffer 长度一致
func Decode(b []byte) (Frame, error) {
	if len(b) < HeaderSize {
		return Frame{}, errors.Wrapf(ErrFormat, "buffer size %d less than header", len(b))
	}

	length, enc := parseHeader(b)
	if length < HeaderSize {
		return Frame{}, errors.Wrapf(ErrFormat, "declared length %d less than header", length)
	}
	if uint64(length) != uint64(len(b)) {
		return Frame{}, errors.Wrapf(ErrFormat, "declared length %d != buffer size %d", length, len(b))
	}
	return Frame{EncodingType: enc, Payload: b[HeaderSize:]}, nil
}

// Frames 从连续 buffer 中依次解析帧
//
//	frames := sofh.NewFrames(b)
//	for frames.Next() {
//		f := frames.Frame()
//	}
//	if err := frames.Err(); err != nil {
//		...
//	}
//
// 剩余数据不足 HeaderSize 时停止迭代且不返回错误
type Frames struct {
	buf   zerocopy.Buffer
	frame Frame
	err   error
}

// NewFrames 创建并返回 *Frames 实例
func NewFrames(b []byte) *Frames {
	return &Frames{
		buf: zerocopy.NewBuffer(b),
	}
}

// Next 解析下一个帧
func (fs *Frames) Next() bool {
	if fs.err != nil || fs.buf.Len() < HeaderSize {
		return false
	}

	header, _ := fs.buf.ReadFull(HeaderSize)
	length, enc := parseHeader(header)
	if length < HeaderSize {
		fs.fail(errors.Wrapf(ErrFormat, "declared length %d less than header", length))
		return false
	}

	payload, err := fs.buf.ReadFull(int(length - HeaderSize))
	if err != nil {
		fs.fail(errors.Wrapf(ErrFormat, "declared length %d exceeds remaining %d bytes", length, fs.buf.Len()+HeaderSize))
		return false
	}

	fs.frame = Frame{EncodingType: enc, Payload: payload}
	return true
}

func (fs *Frames) fail(err error) {
	fs.err = err
	fs.frame = Frame{}
	fs.buf.Close()
}

// Frame 返回当前帧
func (fs *Frames) Frame() Frame {
	return fs.frame
}

// Err 返回迭代过程中的错误
func (fs *Frames) Err() error {
	return fs.err
}

// Remaining 返回尚未解析的字节数
func (fs *Frames) Remaining() int {
	return fs.buf.Len()
}

// AppendHeader 追加 SOFH 首部
func AppendHeader(dst []byte, payloadLen int, enc EncodingType) ([]byte, error) {
	total := uint64(payloadLen) + HeaderSize
	if payloadLen < 0 || total > math.MaxUint32 {
		return dst, errors.Wrapf(ErrFormat, "payload size %d out of range", payloadLen)
	}

	dst = binary.BigEndian.AppendUint32(dst, uint32(total))
	return binary.BigEndian.AppendUint16(dst, uint16(enc)), nil
}

// Encode 生成完整的 SOFH 帧
func Encode(enc EncodingType, payload []byte) ([]byte, error) {
	b, err := AppendHeader(make([]byte, 0, HeaderSize+len(payload)), len(payload), enc)
	if err != nil {
		return nil, err
	}
	return append(b, payload...), nil
}
