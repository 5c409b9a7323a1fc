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
	"slices"

	"github.com/pkg/errors"
	"github.com/valyala/bytebufferpool"
)

// DefaultMaxFrameSize 默认允许的最大帧长度
const DefaultMaxFrameSize = 1 << 20

type state uint8

const (
	stateAwaitingHeader state = iota
	stateAwaitingPayload
	stateReady
)

// BufferedDecoder 增量解析 SOFH 帧 使用方式与 tagvalue.BufferedDecoder 一致
//
// SupplyBuffer 返回的区域必须被完整填充后才能调用 CurrentFrame
type BufferedDecoder struct {
	maxFrameSize int
	buf          *bytebufferpool.ByteBuffer
	state        state
	need         int
	frame        Frame
}

// NewBufferedDecoder 创建并返回 *BufferedDecoder 实例 maxFrameSize <= 0 时使用默认值
func NewBufferedDecoder(maxFrameSize int) *BufferedDecoder {
	if maxFrameSize <= 0 {
		maxFrameSize = DefaultMaxFrameSize
	}
	return &BufferedDecoder{
		maxFrameSize: maxFrameSize,
		buf:          bytebufferpool.Get(),
		need:         HeaderSize,
	}
}

// NumBytesRequired 返回下一次 SupplyBuffer 区域的大小
func (bd *BufferedDecoder) NumBytesRequired() int {
	if bd.state == stateReady {
		return 0
	}
	return bd.need
}

// SupplyBuffer 返回调用方需要完整填充的区域 帧就绪后返回 nil
func (bd *BufferedDecoder) SupplyBuffer() []byte {
	if bd.state == stateReady {
		return nil
	}
	if bd.buf == nil {
		bd.buf = bytebufferpool.Get()
	}

	n := len(bd.buf.B)
	bd.buf.B = slices.Grow(bd.buf.B, bd.need)[:n+bd.need]
	return bd.buf.B[n:]
}

// CurrentFrame 推进状态 仍需更多字节时返回 (nil, nil)
//
// 出现错误时状态会被重置
func (bd *BufferedDecoder) CurrentFrame() (*Frame, error) {
	if bd.buf == nil {
		return nil, nil
	}

	switch bd.state {
	case stateReady:
		return &bd.frame, nil

	case stateAwaitingHeader:
		length, _ := parseHeader(bd.buf.B)
		if length < HeaderSize || uint64(length) > uint64(bd.maxFrameSize) {
			bd.Clear()
			return nil, errors.Wrapf(ErrFormat, "declared length %d out of range [%d, %d]", length, HeaderSize, bd.maxFrameSize)
		}
		bd.need = int(length) - HeaderSize
		bd.state = stateAwaitingPayload
		if bd.need > 0 {
			return nil, nil
		}
	}

	f, err := Decode(bd.buf.B)
	if err != nil {
		bd.Clear()
		return nil, err
	}
	bd.frame = f
	bd.state = stateReady
	bd.need = 0
	return &bd.frame, nil
}

// Frame 返回当前帧 仅在帧就绪后有效
func (bd *BufferedDecoder) Frame() (Frame, bool) {
	if bd.state != stateReady {
		return Frame{}, false
	}
	return bd.frame, true
}

// Clear 重置状态 之前返回的 Frame 失效
func (bd *BufferedDecoder) Clear() {
	if bd.buf != nil {
		bd.buf.Reset()
	}
	bd.frame = Frame{}
	bd.state = stateAwaitingHeader
	bd.need = HeaderSize
}

// Free 归还底层存储
func (bd *BufferedDecoder) Free() {
	bd.Clear()
	if bd.buf != nil {
		bytebufferpool.Put(bd.buf)
		bd.buf = nil
	}
}
