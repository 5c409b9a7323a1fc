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

import (
	"bytes"
)

// Scanner 在字节切片上按分隔符切分 token
//
// 所有返回的切片均引用原始 buffer 不产生任何拷贝
type Scanner struct {
	l, r int
	buf  []byte
}

// NewScanner 创建并返回 *Scanner 实例
func NewScanner(b []byte) *Scanner {
	return &Scanner{
		buf: b,
	}
}

// Reset 重置 Scanner 并使用新的 buffer
func (s *Scanner) Reset(b []byte) {
	s.l, s.r = 0, 0
	s.buf = b
}

// ScanUntil 扫描直到 delim 为止 token 包含 delim
//
// 剩余数据中不存在 delim 时返回 false 且游标保持不动
func (s *Scanner) ScanUntil(delim byte) bool {
	idx := bytes.IndexByte(s.buf[s.r:], delim)
	if idx == -1 {
		return false
	}

	s.l = s.r
	s.r = s.l + idx + 1
	return true
}

// ScanN 扫描固定的 n 个字节 剩余数据不足时返回 false
func (s *Scanner) ScanN(n int) bool {
	if n < 0 || s.r+n > len(s.buf) {
		return false
	}

	s.l = s.r
	s.r += n
	return true
}

// Bytes 返回当前 token
func (s *Scanner) Bytes() []byte {
	return s.buf[s.l:s.r]
}

// Offset 返回当前 token 在 buffer 中的起始位置
func (s *Scanner) Offset() int {
	return s.l
}

// Remaining 返回尚未扫描的字节数
func (s *Scanner) Remaining() int {
	return len(s.buf) - s.r
}
