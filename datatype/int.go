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

package datatype

import (
	"math"
	"unicode/utf8"
)

const (
	typeInt  = "Int"
	typeUint = "Uint"
)

// Int 解析 FIX int 类型 允许前导 '-' 以及前导 0
func Int(b []byte) (int64, error) {
	if len(b) == 0 {
		return 0, newError(typeInt, KindWrongLength, "empty value")
	}

	neg := b[0] == '-'
	digits := b
	if neg {
		digits = b[1:]
		if len(digits) == 0 {
			return 0, newError(typeInt, KindWrongLength, "sign without digits")
		}
	}

	n, err := parseDigits(typeInt, digits)
	if err != nil {
		return 0, err
	}

	if neg {
		if n > math.MaxInt64+1 {
			return 0, newError(typeInt, KindOther, "overflow")
		}
		return -int64(n), nil
	}
	if n > math.MaxInt64 {
		return 0, newError(typeInt, KindOther, "overflow")
	}
	return int64(n), nil
}

// Uint 解析无符号整数 Length/SeqNum/NumInGroup 等类型均使用此函数
func Uint(b []byte) (uint64, error) {
	if len(b) == 0 {
		return 0, newError(typeUint, KindWrongLength, "empty value")
	}
	return parseDigits(typeUint, b)
}

func parseDigits(typ string, b []byte) (uint64, error) {
	var n uint64
	for i := 0; i < len(b); i++ {
		c := b[i]
		if c < '0' || c > '9' {
			if c >= utf8.RuneSelf && !utf8.Valid(b) {
				return 0, newError(typ, KindInvalidUtf8, "")
			}
			return 0, newError(typ, KindInvalidCharacter, "non-digit byte")
		}

		d := uint64(c - '0')
		if n > (math.MaxUint64-d)/10 {
			return 0, newError(typ, KindOther, "overflow")
		}
		n = n*10 + d
	}
	return n, nil
}
