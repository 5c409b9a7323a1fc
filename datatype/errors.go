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
	"strconv"
)

// Kind 数据类型解析错误的分类
type Kind uint8

const (
	// KindNotUtf8 字节序列不是合法的 UTF-8 (Decimal/String)
	KindNotUtf8 Kind = iota + 1

	// KindWrongLength 字节长度不满足类型要求
	KindWrongLength

	// KindInvalidCharacter 出现了类型不允许的字符
	KindInvalidCharacter

	// KindInvalidUtf8 字节序列不是合法的 UTF-8 (Int/Uint)
	KindInvalidUtf8

	// KindOther 类型相关的结构错误 如月份越界 整数溢出
	KindOther
)

var kindNames = map[Kind]string{
	KindNotUtf8:          "NotUtf8",
	KindWrongLength:      "WrongLength",
	KindInvalidCharacter: "InvalidCharacter",
	KindInvalidUtf8:      "InvalidUtf8",
	KindOther:            "Other",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Error 数据类型解析错误
//
// Type 为空或者 Kind 为 0 的 *Error 可作为 errors.Is 的通配目标
type Error struct {
	Type   string
	Kind   Kind
	Detail string
}

func (e *Error) Error() string {
	s := "datatype: invalid " + e.Type + " (" + e.Kind.String() + ")"
	if e.Detail != "" {
		s += ": " + e.Detail
	}
	return s
}

// Is 支持按 Kind 或者 Type 匹配
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Type != "" && t.Type != e.Type {
		return false
	}
	if t.Kind != 0 && t.Kind != e.Kind {
		return false
	}
	return true
}

var (
	ErrNotUtf8          = &Error{Kind: KindNotUtf8}
	ErrWrongLength      = &Error{Kind: KindWrongLength}
	ErrInvalidCharacter = &Error{Kind: KindInvalidCharacter}
	ErrInvalidUtf8      = &Error{Kind: KindInvalidUtf8}
	ErrOther            = &Error{Kind: KindOther}
)

func newError(typ string, kind Kind, detail string) error {
	return &Error{Type: typ, Kind: kind, Detail: detail}
}
