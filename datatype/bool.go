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
	"unicode/utf8"
)

const (
	typeBool   = "Bool"
	typeChar   = "Char"
	typeString = "String"
)

// Bool 解析 FIX Boolean 'Y' 为 true 'N' 为 false
func Bool(b []byte) (bool, error) {
	if len(b) != 1 {
		return false, newError(typeBool, KindWrongLength, "expected 1 byte")
	}

	switch b[0] {
	case 'Y':
		return true, nil
	case 'N':
		return false, nil
	}
	return false, newError(typeBool, KindInvalidCharacter, "expected 'Y' or 'N'")
}

// Char 解析单个可打印 ASCII 字符
func Char(b []byte) (byte, error) {
	if len(b) != 1 {
		return 0, newError(typeChar, KindWrongLength, "expected 1 byte")
	}
	if b[0] < 0x20 || b[0] > 0x7e {
		return 0, newError(typeChar, KindInvalidCharacter, "non printable byte")
	}
	return b[0], nil
}

// String 校验 UTF-8 并返回字符串副本
func String(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", newError(typeString, KindNotUtf8, "")
	}
	return string(b), nil
}
