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

package stream

import (
	"io"

	"github.com/pkg/errors"

	"github.com/packetd/fixcodec/tagvalue"
)

// ErrTruncated 输入在消息或帧中途结束
var ErrTruncated = errors.New("stream: truncated input")

// Reader 从 io.Reader 中持续读取 tag-value 消息
//
// 所有读取均发生在调用方的 goroutine 上 Reader 非并发安全
type Reader struct {
	r     io.Reader
	dec   *tagvalue.BufferedDecoder
	opts  options
	count int
}

// NewReader 创建并返回 *Reader 实例
func NewReader(r io.Reader, dec *tagvalue.BufferedDecoder, opts ...Option) *Reader {
	return &Reader{
		r:    r,
		dec:  dec,
		opts: newOptions(opts),
	}
}

// Next 读取下一条消息
//
// 返回的 *Message 在下一次调用 Next 之前有效 输入正常结束时返回 io.EOF
// 解码错误后解码器已被重置 但输入流的位置无法保证处于消息边界
func (sr *Reader) Next() (*tagvalue.Message, error) {
	if sr.dec.State() == tagvalue.StateReady {
		sr.dec.Clear()
	}

	started := false
	for {
		_, err := io.ReadFull(sr.r, sr.dec.SupplyBuffer())
		if err != nil {
			sr.dec.Clear()
			if errors.Is(err, io.EOF) && !started {
				return nil, io.EOF
			}
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				decodedMessages.WithLabelValues(resultTruncated).Inc()
				sr.opts.log.Warnf("input truncated after %d messages", sr.count)
				return nil, ErrTruncated
			}
			return nil, err
		}
		started = true

		msg, err := sr.dec.CurrentMessage()
		if err != nil {
			decodedMessages.WithLabelValues(resultOf(err)).Inc()
			sr.opts.log.Warnf("failed to decode message #%d: %v", sr.count+1, err)
			return nil, err
		}
		if msg != nil {
			sr.count++
			decodedMessages.WithLabelValues(resultOK).Inc()
			return msg, nil
		}
	}
}

// Count 返回成功解码的消息数量
func (sr *Reader) Count() int {
	return sr.count
}

// Close 释放解码器存储
func (sr *Reader) Close() {
	sr.dec.Free()
}
