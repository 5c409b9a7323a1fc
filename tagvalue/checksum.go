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

// checksumFieldSize CheckSum 字段固定长度 `10=NNN<SEP>`
const checksumFieldSize = 7

// Checksum 计算字节累加和并对 256 取模
func Checksum(b []byte) uint8 {
	var sum uint8
	for _, c := range b {
		sum += c
	}
	return sum
}

// FormatChecksum 返回 3 位补零的校验和文本
func FormatChecksum(sum uint8) [3]byte {
	return [3]byte{'0' + sum/100, '0' + sum/10%10, '0' + sum%10}
}

// AppendChecksum 计算 b 的校验和并追加 `10=NNN<SEP>` 字段
func AppendChecksum(b []byte, sep byte) []byte {
	digits := FormatChecksum(Checksum(b))
	b = append(b, '1', '0', '=')
	b = append(b, digits[:]...)
	return append(b, sep)
}

func parseChecksum(b []byte) (uint8, bool) {
	if len(b) != 3 {
		return 0, false
	}

	var n int
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if n > 255 {
		return 0, false
	}
	return uint8(n), true
}
