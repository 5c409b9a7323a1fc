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

	"github.com/packetd/fixcodec/sofh"
	"github.com/packetd/fixcodec/tagvalue"
)

// FramedReader 从 io.Reader 中读取 SOFH 帧
//
// 编码类型为 FIX tag-value 的帧会使用一次性解码器解析 其余编码仅返回原始帧
type FramedReader struct {
	r     io.Reader
	fd    *sofh.BufferedDecoder
	dec   *tagvalue.Decoder
	opts  options
	count int
}

// NewFramedReader 创建并返回 *FramedReader 实例
func NewFramedReader(r io.Reader, dec *tagvalue.Decoder, opts ...Option) *FramedReader {
	o := newOptions(opts)
	return &FramedReader{
		r:    r,
		fd:   sofh.NewBufferedDecoder(o.maxFrameSize),
		dec:  dec,
		opts: o,
	}
}

// Next 读取下一个帧
//
// 帧以及消息在下一次调用 Next 之前有效 非 tag-value 帧的 *Message 为 nil
// 帧内消息解码失败时仍会返回帧本身 以便调用方跳过该帧继续读取
func (fr *FramedReader) Next() (sofh.Frame, *tagvalue.Message, error) {
	fr.fd.Clear()

	var frame *sofh.Frame
	started := false
	for frame == nil {
		_, err := io.ReadFull(fr.r, fr.fd.SupplyBuffer())
		if err != nil {
			fr.fd.Clear()
			if errors.Is(err, io.EOF) && !started {
				return sofh.Frame{}, nil, io.EOF
			}
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				decodedFrames.WithLabelValues(resultTruncated).Inc()
				fr.opts.log.Warnf("input truncated after %d frames", fr.count)
				return sofh.Frame{}, nil, ErrTruncated
			}
			return sofh.Frame{}, nil, err
		}
		started = true

		if frame, err = fr.fd.CurrentFrame(); err != nil {
			decodedFrames.WithLabelValues(resultFraming).Inc()
			fr.opts.log.Warnf("failed to decode frame #%d: %v", fr.count+1, err)
			return sofh.Frame{}, nil, err
		}
	}

	fr.count++
	decodedFrames.WithLabelValues(encodingLabel(frame.EncodingType)).Inc()
	if frame.EncodingType != sofh.EncodingTagValue {
		return *frame, nil, nil
	}

	msg, err := fr.dec.Decode(frame.Payload)
	if err != nil {
		decodedMessages.WithLabelValues(resultOf(err)).Inc()
		fr.opts.log.Warnf("failed to decode message in frame #%d: %v", fr.count, err)
		return *frame, nil, err
	}
	decodedMessages.WithLabelValues(resultOK).Inc()
	return *frame, msg, nil
}

// Count 返回读取的帧数量
func (fr *FramedReader) Count() int {
	return fr.count
}

// Close 释放帧解码器存储
func (fr *FramedReader) Close() {
	fr.fd.Free()
}
