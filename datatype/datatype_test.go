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
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func assertKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	var e *Error
	if assert.True(t, errors.As(err, &e), "expected *Error, got %v", err) {
		assert.Equal(t, kind, e.Kind)
	}
}

func TestInt(t *testing.T) {
	tests := []struct {
		input string
		want  int64
		kind  Kind
	}{
		{input: "0", want: 0},
		{input: "42", want: 42},
		{input: "-42", want: -42},
		{input: "007", want: 7},
		{input: "9223372036854775807", want: math.MaxInt64},
		{input: "-9223372036854775808", want: math.MinInt64},
		{input: "", kind: KindWrongLength},
		{input: "-", kind: KindWrongLength},
		{input: "12a", kind: KindInvalidCharacter},
		{input: "+1", kind: KindInvalidCharacter},
		{input: "1.5", kind: KindInvalidCharacter},
		{input: "1\xff", kind: KindInvalidUtf8},
		{input: "9223372036854775808", kind: KindOther},
		{input: "99999999999999999999999", kind: KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Int([]byte(tt.input))
			if tt.kind != 0 {
				assertKind(t, err, tt.kind)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUint(t *testing.T) {
	n, err := Uint([]byte("289"))
	assert.NoError(t, err)
	assert.Equal(t, uint64(289), n)

	n, err = Uint([]byte("18446744073709551615"))
	assert.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), n)

	_, err = Uint([]byte("18446744073709551616"))
	assertKind(t, err, KindOther)

	_, err = Uint([]byte("-1"))
	assertKind(t, err, KindInvalidCharacter)

	_, err = Uint(nil)
	assertKind(t, err, KindWrongLength)
}

func TestDecimal(t *testing.T) {
	tests := []struct {
		input string
		want  Decimal
		str   string
		kind  Kind
	}{
		{input: "113.35", want: Decimal{Digits: 11335, Scale: 2}, str: "113.35"},
		{input: "3500.0000000000", want: Decimal{Digits: 35000000000000, Scale: 10}, str: "3500.0000000000"},
		{input: "-0.5", want: Decimal{Neg: true, Digits: 5, Scale: 1}, str: "-0.5"},
		{input: ".25", want: Decimal{Digits: 25, Scale: 2}, str: "0.25"},
		{input: "7000", want: Decimal{Digits: 7000}, str: "7000"},
		{input: "12.", want: Decimal{Digits: 12}, str: "12"},
		{input: "", kind: KindWrongLength},
		{input: "-", kind: KindOther},
		{input: ".", kind: KindOther},
		{input: "1.2.3", kind: KindOther},
		{input: "1e5", kind: KindInvalidCharacter},
		{input: "12\xc3\x28", kind: KindNotUtf8},
		{input: "123456789012345678901234", kind: KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDecimal([]byte(tt.input))
			if tt.kind != 0 {
				assertKind(t, err, tt.kind)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.str, got.String())
		})
	}
}

func TestDecimalConvert(t *testing.T) {
	d, err := ParseDecimal([]byte("-113.35"))
	assert.NoError(t, err)
	assert.InDelta(t, -113.35, d.Float64(), 1e-9)
	assert.Equal(t, "-113.35", d.ToDecimal().String())
	assert.False(t, d.IsZero())

	d, err = ParseDecimal([]byte("0.000"))
	assert.NoError(t, err)
	assert.True(t, d.IsZero())
	assert.True(t, d.ToDecimal().IsZero())
}

func TestBool(t *testing.T) {
	v, err := Bool([]byte("Y"))
	assert.NoError(t, err)
	assert.True(t, v)

	v, err = Bool([]byte("N"))
	assert.NoError(t, err)
	assert.False(t, v)

	_, err = Bool([]byte("y"))
	assertKind(t, err, KindInvalidCharacter)

	_, err = Bool([]byte("TRUE"))
	assertKind(t, err, KindWrongLength)

	_, err = Bool(nil)
	assertKind(t, err, KindWrongLength)
}

func TestCharAndString(t *testing.T) {
	c, err := Char([]byte("1"))
	assert.NoError(t, err)
	assert.Equal(t, byte('1'), c)

	_, err = Char([]byte("12"))
	assertKind(t, err, KindWrongLength)

	_, err = Char([]byte{0x01})
	assertKind(t, err, KindInvalidCharacter)

	s, err := String([]byte("MSFT"))
	assert.NoError(t, err)
	assert.Equal(t, "MSFT", s)

	_, err = String([]byte{0xff, 0xfe})
	assertKind(t, err, KindNotUtf8)
}

func TestMonthYear(t *testing.T) {
	tests := []struct {
		input string
		want  MonthYear
		kind  Kind
	}{
		{input: "202407", want: MonthYear{Year: 2024, Month: 7}},
		{input: "20240709", want: MonthYear{Year: 2024, Month: 7, Day: 9}},
		{input: "202407w2", want: MonthYear{Year: 2024, Month: 7, Week: 2}},
		{input: "20240229", want: MonthYear{Year: 2024, Month: 2, Day: 29}},
		{input: "2024", kind: KindWrongLength},
		{input: "202407-w2", kind: KindWrongLength},
		{input: "2024a7", kind: KindInvalidCharacter},
		{input: "202413", kind: KindOther},
		{input: "202400", kind: KindOther},
		{input: "20230229", kind: KindOther},
		{input: "202407w9", kind: KindOther},
		{input: "202407wx", kind: KindInvalidCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMonthYear([]byte(tt.input))
			if tt.kind != 0 {
				assertKind(t, err, tt.kind)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestTime(t *testing.T) {
	tests := []struct {
		input string
		want  Time
		kind  Kind
	}{
		{input: "18:23:53", want: Time{Hour: 18, Minute: 23, Second: 53}},
		{input: "18:23:53.671", want: Time{Hour: 18, Minute: 23, Second: 53, Nanosecond: 671000000}},
		{input: "23:59:60", want: Time{Hour: 23, Minute: 59, Second: 60}},
		{input: "00:00:00.123456789", want: Time{Nanosecond: 123456789}},
		{input: "18:23", kind: KindWrongLength},
		{input: "18:23:53.", kind: KindWrongLength},
		{input: "18-23-53", kind: KindInvalidCharacter},
		{input: "18:2x:53", kind: KindInvalidCharacter},
		{input: "18:23:53,671", kind: KindInvalidCharacter},
		{input: "24:00:00", kind: KindOther},
		{input: "12:60:00", kind: KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTime([]byte(tt.input))
			if tt.kind != 0 {
				assertKind(t, err, tt.kind)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimestamp(t *testing.T) {
	got, err := Timestamp([]byte("20180920-18:23:53.671"))
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2018, 9, 20, 18, 23, 53, 671000000, time.UTC), got)

	got, err = Timestamp([]byte("20180920-18:23:53"))
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2018, 9, 20, 18, 23, 53, 0, time.UTC), got)

	_, err = Timestamp([]byte("20180920"))
	assertKind(t, err, KindWrongLength)

	_, err = Timestamp([]byte("20180920 18:23:53"))
	assertKind(t, err, KindInvalidCharacter)

	_, err = Timestamp([]byte("20181320-18:23:53"))
	assertKind(t, err, KindOther)

	_, err = Timestamp([]byte("20180920-25:23:53"))
	assertKind(t, err, KindOther)
	assert.True(t, errors.Is(err, &Error{Type: "Timestamp"}))
}

func TestDate(t *testing.T) {
	got, err := ParseDate([]byte("20180920"))
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2018, 9, 20, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate([]byte("2018092"))
	assertKind(t, err, KindWrongLength)

	_, err = ParseDate([]byte("2018O920"))
	assertKind(t, err, KindInvalidCharacter)

	_, err = ParseDate([]byte("20180931"))
	assertKind(t, err, KindOther)
}

func TestErrorIs(t *testing.T) {
	_, err := Int([]byte("x"))
	assert.True(t, errors.Is(err, ErrInvalidCharacter))
	assert.False(t, errors.Is(err, ErrWrongLength))
	assert.True(t, errors.Is(err, &Error{Type: "Int", Kind: KindInvalidCharacter}))
	assert.False(t, errors.Is(err, &Error{Type: "Decimal"}))
	assert.Equal(t, "datatype: invalid Int (InvalidCharacter): non-digit byte", err.Error())
}

func TestParseType(t *testing.T) {
	assert.Equal(t, TypeUTCTimestamp, ParseType("UTCTIMESTAMP"))
	assert.Equal(t, TypeMultipleStringValue, ParseType("MultipleValueString"))
	assert.Equal(t, TypeUnknown, ParseType("RESERVED100PLUS"))
	assert.Equal(t, "PRICE", TypePrice.String())

	assert.Equal(t, BaseDecimal, TypeQty.Base())
	assert.Equal(t, BaseUint, TypeSeqNum.Base())
	assert.Equal(t, BaseInt, TypeInt.Base())
	assert.Equal(t, BaseString, TypeUnknown.Base())
	assert.Equal(t, BaseDate, TypeLocalMktDate.Base())
}

func BenchmarkDecimal(b *testing.B) {
	input := []byte("3500.0000000000")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = ParseDecimal(input)
	}
}

func BenchmarkTimestamp(b *testing.B) {
	input := []byte("20180920-18:23:53.671")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Timestamp(input)
	}
}
