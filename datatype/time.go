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
	"time"
)

const (
	typeTime      = "Time"
	typeTimestamp = "Timestamp"
	typeDate      = "Date"
)

// maxFractionDigits 最多支持纳秒精度
const maxFractionDigits = 9

// Time FIX UTCTimeOnly 类型 HH:MM:SS[.sss...]
//
// Second 允许 60 用于表示闰秒
type Time struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
}

func (t Time) String() string {
	s := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if t.Nanosecond > 0 {
		s += fmt.Sprintf(".%09d", t.Nanosecond)
	}
	return s
}

// ParseTime 解析 UTCTimeOnly
func ParseTime(b []byte) (Time, error) {
	return parseTime(typeTime, b)
}

func parseTime(typ string, b []byte) (Time, error) {
	var t Time
	if len(b) != 8 && (len(b) < 10 || len(b) > 9+maxFractionDigits) {
		return t, newError(typ, KindWrongLength, "expected HH:MM:SS[.sss]")
	}
	if b[2] != ':' || b[5] != ':' {
		return t, newError(typ, KindInvalidCharacter, "expected ':'")
	}

	var ok bool
	if t.Hour, ok = atoiFixed(b[0:2]); !ok {
		return Time{}, newError(typ, KindInvalidCharacter, "hour")
	}
	if t.Minute, ok = atoiFixed(b[3:5]); !ok {
		return Time{}, newError(typ, KindInvalidCharacter, "minute")
	}
	if t.Second, ok = atoiFixed(b[6:8]); !ok {
		return Time{}, newError(typ, KindInvalidCharacter, "second")
	}
	if t.Hour > 23 || t.Minute > 59 || t.Second > 60 {
		return Time{}, newError(typ, KindOther, "time component out of range")
	}

	if len(b) == 8 {
		return t, nil
	}
	if b[8] != '.' {
		return Time{}, newError(typ, KindInvalidCharacter, "expected '.'")
	}

	frac := b[9:]
	ns, ok := atoiFixed(frac)
	if !ok {
		return Time{}, newError(typ, KindInvalidCharacter, "fraction")
	}
	for i := len(frac); i < maxFractionDigits; i++ {
		ns *= 10
	}
	t.Nanosecond = ns
	return t, nil
}

// ParseDate 解析 UTCDateOnly / LocalMktDate YYYYMMDD
func ParseDate(b []byte) (time.Time, error) {
	if len(b) != 8 {
		return time.Time{}, newError(typeDate, KindWrongLength, "expected YYYYMMDD")
	}
	return parseDate(typeDate, b)
}

func parseDate(typ string, b []byte) (time.Time, error) {
	year, ok := atoiFixed(b[0:4])
	if !ok {
		return time.Time{}, newError(typ, KindInvalidCharacter, "year")
	}
	month, ok := atoiFixed(b[4:6])
	if !ok {
		return time.Time{}, newError(typ, KindInvalidCharacter, "month")
	}
	day, ok := atoiFixed(b[6:8])
	if !ok {
		return time.Time{}, newError(typ, KindInvalidCharacter, "day")
	}
	if month < 1 || month > 12 || day < 1 || day > daysIn(year, month) {
		return time.Time{}, newError(typ, KindOther, "date component out of range")
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// Timestamp 解析 UTCTimestamp YYYYMMDD-HH:MM:SS[.sss...] 返回 UTC 时间
func Timestamp(b []byte) (time.Time, error) {
	if len(b) != 17 && (len(b) < 19 || len(b) > 18+maxFractionDigits) {
		return time.Time{}, newError(typeTimestamp, KindWrongLength, "expected YYYYMMDD-HH:MM:SS[.sss]")
	}
	if b[8] != '-' {
		return time.Time{}, newError(typeTimestamp, KindInvalidCharacter, "expected '-'")
	}

	date, err := parseDate(typeTimestamp, b[:8])
	if err != nil {
		return time.Time{}, err
	}
	t, err := parseTime(typeTimestamp, b[9:])
	if err != nil {
		return time.Time{}, err
	}
	return date.Add(time.Duration(t.Hour)*time.Hour +
		time.Duration(t.Minute)*time.Minute +
		time.Duration(t.Second)*time.Second +
		time.Duration(t.Nanosecond)), nil
}
