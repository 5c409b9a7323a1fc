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
	"math/big"
	"strconv"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const typeDecimal = "Decimal"

// Decimal FIX float 类型的定点表示
//
// 值为 (-1)^Neg * Digits * 10^-Scale 保留报文中的小数位数 "3500.00" 的 Scale 为 2
type Decimal struct {
	Neg    bool
	Digits uint64
	Scale  int32
}

// ParseDecimal 解析 FIX float 及其衍生类型 (Qty/Price/Amt/...)
//
// 不支持指数形式 有效数字超过 uint64 表示范围时返回 KindOther
func ParseDecimal(b []byte) (Decimal, error) {
	var d Decimal
	if len(b) == 0 {
		return d, newError(typeDecimal, KindWrongLength, "empty value")
	}

	i := 0
	if b[0] == '-' {
		d.Neg = true
		i++
	}

	var dot, ndigits int
	for ; i < len(b); i++ {
		c := b[i]
		switch {
		case c >= '0' && c <= '9':
			n := uint64(c - '0')
			if d.Digits > (math.MaxUint64-n)/10 {
				return Decimal{}, newError(typeDecimal, KindOther, "too many significant digits")
			}
			d.Digits = d.Digits*10 + n
			ndigits++
			if dot > 0 {
				d.Scale++
			}

		case c == '.':
			dot++
			if dot > 1 {
				return Decimal{}, newError(typeDecimal, KindOther, "multiple decimal points")
			}

		default:
			if c >= utf8.RuneSelf && !utf8.Valid(b) {
				return Decimal{}, newError(typeDecimal, KindNotUtf8, "")
			}
			return Decimal{}, newError(typeDecimal, KindInvalidCharacter, "unexpected byte "+strconv.QuoteRune(rune(c)))
		}
	}

	if ndigits == 0 {
		return Decimal{}, newError(typeDecimal, KindOther, "no digits")
	}
	return d, nil
}

// IsZero 返回是否为 0 (忽略符号)
func (d Decimal) IsZero() bool {
	return d.Digits == 0
}

// Float64 转换为 float64 可能丢失精度
func (d Decimal) Float64() float64 {
	f := float64(d.Digits) / math.Pow10(int(d.Scale))
	if d.Neg {
		return -f
	}
	return f
}

// String 按原始精度格式化
func (d Decimal) String() string {
	s := strconv.FormatUint(d.Digits, 10)
	if d.Scale > 0 {
		scale := int(d.Scale)
		for len(s) <= scale {
			s = "0" + s
		}
		s = s[:len(s)-scale] + "." + s[len(s)-scale:]
	}
	if d.Neg && d.Digits != 0 {
		s = "-" + s
	}
	return s
}

// ToDecimal 转换为 shopspring decimal 便于后续做精确运算
func (d Decimal) ToDecimal() decimal.Decimal {
	v := new(big.Int).SetUint64(d.Digits)
	if d.Neg {
		v.Neg(v)
	}
	return decimal.NewFromBigInt(v, -d.Scale)
}
