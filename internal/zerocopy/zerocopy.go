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

package zerocopy

import (
	"io"
)

// Reader 零拷贝读取 返回的切片引用底层 buffer
type Reader interface {
	// Read 读取至多 n 个字节 数据读取完毕后返回 io.EOF
	Read(n int) ([]byte, error)

	// ReadFull 读取恰好 n 个字节 剩余数据不足时返回 io.ErrUnexpectedEOF 且不推进游标
	ReadFull(n int) ([]byte, error)

	// Len 返回剩余未读取的字节数
	Len() int
}

type Writer interface {
	Write(p []byte)
}

type Closer interface {
	Close()
}

type Buffer interface {
	Writer
	Reader
	Closer
}

type buffer struct {
	r int
	b []byte
}

// NewBuffer 创建并返回 Buffer 实例
func NewBuffer(p []byte) Buffer {
	return &buffer{
		b: p,
	}
}

func (buf *buffer) Read(n int) ([]byte, error) {
	if buf.r == len(buf.b) {
		return nil, io.EOF
	}

	if buf.r+n >= len(buf.b) {
		b := buf.b[buf.r:len(buf.b)]
		buf.r = len(buf.b)
		return b, nil
	}

	b := buf.b[buf.r : buf.r+n]
	buf.r += n
	return b, nil
}

func (buf *buffer) ReadFull(n int) ([]byte, error) {
	if n < 0 || buf.Len() < n {
		return nil, io.ErrUnexpectedEOF
	}

	b := buf.b[buf.r : buf.r+n]
	buf.r += n
	return b, nil
}

func (buf *buffer) Len() int {
	return len(buf.b) - buf.r
}

func (buf *buffer) Write(p []byte) {
	buf.b = p
	buf.r = 0
}

func (buf *buffer) Close() {
	buf.r = len(buf.b)
}
