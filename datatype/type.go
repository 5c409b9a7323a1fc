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
	"strings"
)

// Type FIX 字典中声明的字段类型
type Type uint8

const (
	TypeUnknown Type = iota
	TypeInt
	TypeLength
	TypeNumInGroup
	TypeSeqNum
	TypeTagNum
	TypeDayOfMonth
	TypeFloat
	TypeQty
	TypePrice
	TypePriceOffset
	TypeAmt
	TypePercentage
	TypeChar
	TypeBoolean
	TypeString
	TypeMultipleCharValue
	TypeMultipleStringValue
	TypeCountry
	TypeCurrency
	TypeExchange
	TypeLanguage
	TypeData
	TypeXMLData
	TypeMonthYear
	TypeUTCTimestamp
	TypeUTCTimeOnly
	TypeUTCDateOnly
	TypeLocalMktDate
)

var typeNames = [...]string{
	TypeUnknown:             "UNKNOWN",
	TypeInt:                 "INT",
	TypeLength:              "LENGTH",
	TypeNumInGroup:          "NUMINGROUP",
	TypeSeqNum:              "SEQNUM",
	TypeTagNum:              "TAGNUM",
	TypeDayOfMonth:          "DAYOFMONTH",
	TypeFloat:               "FLOAT",
	TypeQty:                 "QTY",
	TypePrice:               "PRICE",
	TypePriceOffset:         "PRICEOFFSET",
	TypeAmt:                 "AMT",
	TypePercentage:          "PERCENTAGE",
	TypeChar:                "CHAR",
	TypeBoolean:             "BOOLEAN",
	TypeString:              "STRING",
	TypeMultipleCharValue:   "MULTIPLECHARVALUE",
	TypeMultipleStringValue: "MULTIPLESTRINGVALUE",
	TypeCountry:             "COUNTRY",
	TypeCurrency:            "CURRENCY",
	TypeExchange:            "EXCHANGE",
	TypeLanguage:            "LANGUAGE",
	TypeData:                "DATA",
	TypeXMLData:             "XMLDATA",
	TypeMonthYear:           "MONTHYEAR",
	TypeUTCTimestamp:        "UTCTIMESTAMP",
	TypeUTCTimeOnly:         "UTCTIMEONLY",
	TypeUTCDateOnly:         "UTCDATEONLY",
	TypeLocalMktDate:        "LOCALMKTDATE",
}

// 历史版本字典中出现过的别名
var typeAliases = map[string]Type{
	"MULTIPLEVALUESTRING": TypeMultipleStringValue,
	"UTCDATE":             TypeUTCDateOnly,
	"DATE":                TypeUTCDateOnly,
	"TIME":                TypeUTCTimestamp,
	"LONG":                TypeInt,
}

var typeByName = func() map[string]Type {
	m := make(map[string]Type, len(typeNames)+len(typeAliases))
	for t, name := range typeNames {
		m[name] = Type(t)
	}
	for name, t := range typeAliases {
		m[name] = t
	}
	return m
}()

// ParseType 根据 QuickFIX 字典中的类型名称返回 Type 大小写不敏感
//
// 无法识别的类型返回 TypeUnknown
func ParseType(name string) Type {
	if t, ok := typeByName[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return t
	}
	return TypeUnknown
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return typeNames[TypeUnknown]
}

// Base 决定字段值使用哪一个校验函数解析
type Base uint8

const (
	BaseString Base = iota
	BaseInt
	BaseUint
	BaseDecimal
	BaseChar
	BaseBool
	BaseData
	BaseMonthYear
	BaseTime
	BaseTimestamp
	BaseDate
)

var baseNames = [...]string{
	BaseString:    "String",
	BaseInt:       "Int",
	BaseUint:      "Uint",
	BaseDecimal:   "Decimal",
	BaseChar:      "Char",
	BaseBool:      "Bool",
	BaseData:      "Data",
	BaseMonthYear: "MonthYear",
	BaseTime:      "Time",
	BaseTimestamp: "Timestamp",
	BaseDate:      "Date",
}

func (b Base) String() string {
	if int(b) < len(baseNames) {
		return baseNames[b]
	}
	return "Base(?)"
}

// Base 返回 Type 对应的基础类型 未知类型按字符串处理
func (t Type) Base() Base {
	switch t {
	case TypeInt:
		return BaseInt
	case TypeLength, TypeNumInGroup, TypeSeqNum, TypeTagNum, TypeDayOfMonth:
		return BaseUint
	case TypeFloat, TypeQty, TypePrice, TypePriceOffset, TypeAmt, TypePercentage:
		return BaseDecimal
	case TypeChar:
		return BaseChar
	case TypeBoolean:
		return BaseBool
	case TypeData, TypeXMLData:
		return BaseData
	case TypeMonthYear:
		return BaseMonthYear
	case TypeUTCTimeOnly:
		return BaseTime
	case TypeUTCTimestamp:
		return BaseTimestamp
	case TypeUTCDateOnly, TypeLocalMktDate:
		return BaseDate
	}
	return BaseString
}
