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

import (
	"time"

	"github.com/pkg/errors"

	"github.com/packetd/fixcodec/datatype"
)

// 字段的类型化读取均为惰性操作 仅在调用时才进行解析
// 字典中声明的类型与读取方式不一致时返回 ErrTypeMismatch 不做隐式转换
// 字典中不存在的 tag 按调用方指定的类型解析

func (m *Message) lookup(tag uint32, bases ...datatype.Base) ([]byte, error) {
	f, ok := m.Get(tag)
	if !ok {
		return nil, errors.Wrapf(ErrFieldNotFound, "tag %d", tag)
	}
	if m.dict == nil {
		return f.Value, nil
	}

	typ, ok := m.dict.FieldType(tag)
	if !ok {
		return f.Value, nil
	}

	base := typ.Base()
	for _, b := range bases {
		if b == base {
			return f.Value, nil
		}
	}
	return nil, errors.Wrapf(ErrTypeMismatch, "tag %d is %s", tag, typ)
}

// Int 读取有符号整数字段
func (m *Message) Int(tag uint32) (int64, error) {
	b, err := m.lookup(tag, datatype.BaseInt)
	if err != nil {
		return 0, err
	}
	return datatype.Int(b)
}

// Uint 读取无符号整数字段 如 Length / SeqNum / NumInGroup
func (m *Message) Uint(tag uint32) (uint64, error) {
	b, err := m.lookup(tag, datatype.BaseUint)
	if err != nil {
		return 0, err
	}
	return datatype.Uint(b)
}

// Decimal 读取 Price / Qty / Amt 等十进制字段
func (m *Message) Decimal(tag uint32) (datatype.Decimal, error) {
	b, err := m.lookup(tag, datatype.BaseDecimal)
	if err != nil {
		return datatype.Decimal{}, err
	}
	return datatype.ParseDecimal(b)
}

// Bool 读取 Y/N 字段
func (m *Message) Bool(tag uint32) (bool, error) {
	b, err := m.lookup(tag, datatype.BaseBool)
	if err != nil {
		return false, err
	}
	return datatype.Bool(b)
}

// Char 读取单字符字段
func (m *Message) Char(tag uint32) (byte, error) {
	b, err := m.lookup(tag, datatype.BaseChar)
	if err != nil {
		return 0, err
	}
	return datatype.Char(b)
}

// String 读取字符串字段
func (m *Message) String(tag uint32) (string, error) {
	b, err := m.lookup(tag, datatype.BaseString)
	if err != nil {
		return "", err
	}
	return datatype.String(b)
}

// Data 读取 Data 字段原始字节 内容可能包含分隔符
func (m *Message) Data(tag uint32) ([]byte, error) {
	return m.lookup(tag, datatype.BaseData)
}

// MonthYear 读取 MonthYear 字段
func (m *Message) MonthYear(tag uint32) (datatype.MonthYear, error) {
	b, err := m.lookup(tag, datatype.BaseMonthYear)
	if err != nil {
		return datatype.MonthYear{}, err
	}
	return datatype.ParseMonthYear(b)
}

// Time 读取 UTCTimeOnly 字段
func (m *Message) Time(tag uint32) (datatype.Time, error) {
	b, err := m.lookup(tag, datatype.BaseTime)
	if err != nil {
		return datatype.Time{}, err
	}
	return datatype.ParseTime(b)
}

// Timestamp 读取 UTCTimestamp 字段
func (m *Message) Timestamp(tag uint32) (time.Time, error) {
	b, err := m.lookup(tag, datatype.BaseTimestamp)
	if err != nil {
		return time.Time{}, err
	}
	return datatype.Timestamp(b)
}

// Date 读取 UTCDateOnly / LocalMktDate 字段
func (m *Message) Date(tag uint32) (time.Time, error) {
	b, err := m.lookup(tag, datatype.BaseDate)
	if err != nil {
		return time.Time{}, err
	}
	return datatype.ParseDate(b)
}

// Value 根据字典声明的类型解析字段 字典中不存在的 tag 按字符串返回
func (m *Message) Value(tag uint32) (any, error) {
	f, ok := m.Get(tag)
	if !ok {
		return nil, errors.Wrapf(ErrFieldNotFound, "tag %d", tag)
	}
	return m.FieldValue(f)
}

// FieldValue 同 Value 但作用于单个字段 用于解析重复 tag 的每一次出现
func (m *Message) FieldValue(f Field) (any, error) {
	base := datatype.BaseString
	if m.dict != nil {
		if typ, ok := m.dict.FieldType(f.Tag); ok {
			base = typ.Base()
		}
	}

	b := f.Value
	switch base {
	case datatype.BaseInt:
		return datatype.Int(b)
	case datatype.BaseUint:
		return datatype.Uint(b)
	case datatype.BaseDecimal:
		return datatype.ParseDecimal(b)
	case datatype.BaseChar:
		return datatype.Char(b)
	case datatype.BaseBool:
		return datatype.Bool(b)
	case datatype.BaseData:
		return b, nil
	case datatype.BaseMonthYear:
		return datatype.ParseMonthYear(b)
	case datatype.BaseTime:
		return datatype.ParseTime(b)
	case datatype.BaseTimestamp:
		return datatype.Timestamp(b)
	case datatype.BaseDate:
		return datatype.ParseDate(b)
	}
	return datatype.String(b)
}
