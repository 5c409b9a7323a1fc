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

package splitio

// Reader 基于 Scanner 读取不带分隔符的 token
type Reader struct {
	scanner *Scanner
}

// NewReader 创建并返回 *Reader 实例
func NewReader(b []byte) *Reader {
	return &Reader{
		scanner: NewScanner(b),
	}
}

// Reset 使用新的 buffer 重置 Reader
func (lr *Reader) Reset(b []byte) {
	lr.scanner.Reset(b)
}

// ReadUntil 读取直到 delim 的内容 返回值不包含 delim
func (lr *Reader) ReadUntil(delim byte) ([]byte, bool) {
	if !lr.scanner.ScanUntil(delim) {
		return nil, false
	}

	b := lr.scanner.Bytes()
	return b[:len(b)-1], true
}

// ReadN 读取固定长度的内容
func (lr *Reader) ReadN(n int) ([]byte, bool) {
	if !lr.scanner.ScanN(n) {
		return nil, false
	}
	return lr.scanner.Bytes(), true
}

// Offset 返回最近一次读取内容的起始位置
func (lr *Reader) Offset() int {
	return lr.scanner.Offset()
}

// EOF 判断是否已经读取完毕
func (lr *Reader) EOF() bool {
	return lr.scanner.Remaining() == 0
}
