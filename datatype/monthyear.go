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
	"fmt"
)

const typeMonthYear = "MonthYear"

// MonthYear FIX MonthYear 类型
//
// 支持三种格式
// - YYYYMM
// - YYYYMMDD
// - YYYYMMwN (N 为 1-5 周)
//
// Day/Week 不存在时为 0
type MonthYear struct {
	Year  int
	Month int
	Day   int
	Week  int
}

func (my MonthYear) String() string {
	switch {
	case my.Day > 0:
		return fmt.Sprintf("%04d%02d%02d", my.Year, my.Month, my.Day)
	case my.Week > 0:
		return fmt.Sprintf("%04d%02dw%d", my.Year, my.Month, my.Week)
	}
	return fmt.Sprintf("%04d%02d", my.Year, my.Month)
}

// ParseMonthYear 解析 MonthYear
func ParseMonthYear(b []byte) (MonthYear, error) {
	var my MonthYear
	if len(b) != 6 && len(b) != 8 {
		return my, newError(typeMonthYear, KindWrongLength, "expected 6 or 8 bytes")
	}

	var ok bool
	if my.Year, ok = atoiFixed(b[0:4]); !ok {
		return MonthYear{}, newError(typeMonthYear, KindInvalidCharacter, "year")
	}
	if my.Month, ok = atoiFixed(b[4:6]); !ok {
		return MonthYear{}, newError(typeMonthYear, KindInvalidCharacter, "month")
	}
	if my.Month < 1 || my.Month > 12 {
		return MonthYear{}, newError(typeMonthYear, KindOther, "month out of range")
	}
	if len(b) == 6 {
		return my, nil
	}

	if b[6] == 'w' {
		week := int(b[7]) - '0'
		if week < 0 || week > 9 {
			return MonthYear{}, newError(typeMonthYear, KindInvalidCharacter, "week")
		}
		if week < 1 || week > 5 {
			return MonthYear{}, newError(typeMonthYear, KindOther, "week out of range")
		}
		my.Week = week
		return my, nil
	}

	if my.Day, ok = atoiFixed(b[6:8]); !ok {
		return MonthYear{}, newError(typeMonthYear, KindInvalidCharacter, "day")
	}
	if my.Day < 1 || my.Day > daysIn(my.Year, my.Month) {
		return MonthYear{}, newError(typeMonthYear, KindOther, "day out of range")
	}
	return my, nil
}

// atoiFixed 解析定长的十进制数字 不允许符号
func atoiFixed(b []byte) (int, bool) {
	var n int
	for i := 0; i < len(b); i++ {
		c := b[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

func daysIn(year, month int) int {
	switch month {
	case 2:
		if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	}
	return 31
}
