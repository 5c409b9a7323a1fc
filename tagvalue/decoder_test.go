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
	"bytes"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packetd/fixcodec/common"
	"github.com/packetd/fixcodec/datatype"
	"github.com/packetd/fixcodec/dictionary"
)

const executionReport = "8=FIX.4.4\x019=289\x0135=8\x0134=1090\x0149=TESTSELL1\x0152=20180920-18:23:53.671\x01" +
	"56=TESTBUY1\x016=113.35\x0111=636730640278898634\x0114=3500.0000000000\x0115=USD\x01" +
	"17=20636730646335310000\x0121=2\x0131=113.35\x0132=3500\x0137=20636730646335310000\x01" +
	"38=7000\x0139=1\x0140=1\x0154=1\x0155=MSFT\x0160=20180920-18:23:53.531\x01150=F\x01" +
	"151=3500\x01453=1\x01448=BRK2\x01447=D\x01452=1\x0110=151\x01"

// buildMessage 根据 body 字段生成带正确 BodyLength 以及 CheckSum 的消息
func buildMessage(sep byte, beginString string, fields ...string) []byte {
	var body []byte
	for _, f := range fields {
		body = append(body, f...)
		body = append(body, sep)
	}

	var b []byte
	b = append(b, "8="+beginString...)
	b = append(b, sep)
	b = append(b, "9="+strconv.Itoa(len(body))...)
	b = append(b, sep)
	b = append(b, body...)
	return AppendChecksum(b, sep)
}

func pipeDecoder() *Decoder {
	dec := NewDecoder(dictionary.FIX44())
	dec.Config().Separator = '|'
	return dec
}

func assertErrorKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	var e *Error
	if assert.True(t, errors.As(err, &e), "expected *Error, got %v", err) {
		assert.Equal(t, kind, e.Kind, e.Error())
	}
}

func TestDecodeExecutionReport(t *testing.T) {
	dec := NewDecoder(dictionary.FIX44())
	msg, err := dec.Decode([]byte(executionReport))
	require.NoError(t, err)

	f, ok := msg.Get(55)
	assert.True(t, ok)
	assert.Equal(t, []byte("MSFT"), f.Value)

	assert.Equal(t, []byte("FIX.4.4"), msg.BeginString())
	assert.Equal(t, 289, msg.BodyLength())
	assert.Equal(t, uint8(151), msg.CheckSum())
	assert.Equal(t, "8", msg.MsgType())
	assert.Equal(t, 29, msg.Len())
	assert.Equal(t, []byte(executionReport), msg.Bytes())

	schema, ok := msg.Schema()
	assert.True(t, ok)
	assert.Equal(t, "ExecutionReport", schema.Name)

	fields := msg.Fields()
	assert.Equal(t, uint32(8), fields[0].Tag)
	assert.Equal(t, uint32(9), fields[1].Tag)
	assert.Equal(t, []byte("289"), fields[1].Value)
	assert.Equal(t, uint32(10), fields[len(fields)-1].Tag)
	assert.Equal(t, []byte("151"), fields[len(fields)-1].Value)
}

func TestDecodeChecksumMismatch(t *testing.T) {
	dec := NewDecoder(dictionary.FIX44())
	b := bytes.Replace([]byte(executionReport), []byte("10=151"), []byte("10=150"), 1)

	_, err := dec.Decode(b)
	assert.True(t, errors.Is(err, ErrChecksum))
	assert.False(t, errors.Is(err, ErrFormat))
	assert.EqualError(t, err, "tagvalue: checksum error: 151 != 150")

	dec.Config().VerifyChecksum = false
	msg, err := dec.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, uint8(150), msg.CheckSum())
}

func TestChecksumRoundTrip(t *testing.T) {
	dec := NewDecoder(dictionary.FIX44())
	msg, err := dec.Decode([]byte(executionReport))
	require.NoError(t, err)

	raw := msg.Bytes()
	assert.Equal(t, msg.CheckSum(), Checksum(raw[:len(raw)-checksumFieldSize]))
	assert.Equal(t, raw, AppendChecksum(append([]byte(nil), raw[:len(raw)-checksumFieldSize]...), common.SOH))

	assert.Equal(t, [3]byte{'0', '0', '7'}, FormatChecksum(7))
	assert.Equal(t, [3]byte{'2', '5', '5'}, FormatChecksum(255))
}

func TestChecksumSensitivity(t *testing.T) {
	src := []byte(executionReport)
	bodyStart := len("8=FIX.4.4\x019=289\x01")
	csStart := bytes.Index(src, []byte("\x0110=")) + 1

	dec := NewDecoder(dictionary.FIX44())
	inValue := false
	for i := bodyStart; i < csStart; i++ {
		switch src[i] {
		case '=':
			inValue = true
			continue
		case common.SOH:
			inValue = false
			continue
		}
		if !inValue {
			continue
		}

		b := append([]byte(nil), src...)
		b[i] ^= 0x20

		dec.Config().VerifyChecksum = true
		_, err := dec.Decode(b)
		assert.True(t, errors.Is(err, ErrChecksum), "offset %d: %v", i, err)

		dec.Config().VerifyChecksum = false
		_, err = dec.Decode(b)
		assert.NoError(t, err, "offset %d", i)
	}
}

func TestDecodeFormatErrors(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{name: "Empty", input: nil},
		{name: "FirstFieldNotBeginString", input: []byte("9=5|8=FIX.4.4|35=0|10=000|")},
		{name: "EmptyBeginString", input: buildMessage('|', "", "35=0")},
		{name: "SecondFieldNotBodyLength", input: []byte("8=FIX.4.4|35=0|9=5|10=000|")},
		{name: "InvalidBodyLength", input: []byte("8=FIX.4.4|9=abc|35=0|10=000|")},
		{name: "BodyLengthTooLarge", input: []byte("8=FIX.4.4|9=50|35=0|10=000|")},
		{name: "BodyLengthTooSmall", input: []byte("8=FIX.4.4|9=4|35=0|10=000|")},
		{name: "MissingChecksum", input: []byte("8=FIX.4.4|9=5|35=0|11=0000|")},
		{name: "MalformedChecksum", input: []byte("8=FIX.4.4|9=5|35=0|10=1a1|")},
		{name: "ChecksumOutOfRange", input: []byte("8=FIX.4.4|9=5|35=0|10=999|")},
		{name: "TrailingBytes", input: append(buildMessage('|', "FIX.4.4", "35=0"), 'x')},
		{name: "InvalidTag", input: buildMessage('|', "FIX.4.4", "35=0", "3x=1")},
		{name: "ZeroTag", input: buildMessage('|', "FIX.4.4", "35=0", "0=1")},
		{name: "TagOverflow", input: buildMessage('|', "FIX.4.4", "35=0", "4294967296=1")},
		{name: "MissingEquals", input: buildMessage('|', "FIX.4.4", "35=0", "58")},
	}

	dec := pipeDecoder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := dec.Decode(tt.input)
			assert.Nil(t, msg)
			assertErrorKind(t, err, KindFormat)
			assert.True(t, errors.Is(err, ErrFormat))
		})
	}
}

func TestDecodeUnsupportedVersion(t *testing.T) {
	dec := NewDecoder(dictionary.FIX44())
	dec.Config().BeginStrings = []string{"FIX.4.2", "FIXT.1.1"}

	_, err := dec.Decode([]byte(executionReport))
	assert.True(t, errors.Is(err, ErrUnsupportedVersion))

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "FIX.4.4", e.Version)
	assert.Contains(t, e.Error(), "FIX.4.4")

	dec.Config().BeginStrings = append(dec.Config().BeginStrings, "FIX.4.4")
	_, err = dec.Decode([]byte(executionReport))
	assert.NoError(t, err)
}

func TestDecodeReusableAfterError(t *testing.T) {
	dec := pipeDecoder()
	good := buildMessage('|', "FIX.4.4", "35=0", "112=PING")

	for _, bad := range [][]byte{
		[]byte("garbage"),
		buildMessage('|', "FIX.4.4", "35=0", "x=1"),
		bytes.Replace(good, []byte("PING"), []byte("PONG"), 1),
	} {
		_, err := dec.Decode(bad)
		assert.Error(t, err)

		msg, err := dec.Decode(good)
		require.NoError(t, err)
		assert.Equal(t, 5, msg.Len())
		s, err := msg.String(112)
		assert.NoError(t, err)
		assert.Equal(t, "PING", s)
	}
}

func TestRepeatedTags(t *testing.T) {
	input := buildMessage('|', "FIX.4.4", "35=j", "58=a", "45=1", "58=b", "372=D", "58=c")

	for _, assoc := range []bool{true, false} {
		dec := pipeDecoder()
		dec.Config().DecodeAssoc = assoc
		msg, err := dec.Decode(input)
		require.NoError(t, err)

		f, ok := msg.Get(58)
		assert.True(t, ok)
		assert.Equal(t, []byte("c"), f.Value)

		all := msg.GetAll(58)
		require.Len(t, all, 3)
		assert.Equal(t, []byte("a"), all[0].Value)
		assert.Equal(t, []byte("b"), all[1].Value)
		assert.Equal(t, []byte("c"), all[2].Value)

		assert.Len(t, msg.GetAll(45), 1)
		assert.Nil(t, msg.GetAll(999))
		_, ok = msg.Get(999)
		assert.False(t, ok)
	}
}

func TestFieldValueRepeated(t *testing.T) {
	input := buildMessage('|', "FIX.4.4", "35=D", "453=2", "448=BRKR", "452=1", "448=DESK", "452=24")
	msg, err := pipeDecoder().Decode(input)
	require.NoError(t, err)

	roles := msg.GetAll(452)
	require.Len(t, roles, 2)
	v, err := msg.FieldValue(roles[0])
	assert.NoError(t, err)
	assert.Equal(t, int64(1), v)
	v, err = msg.FieldValue(roles[1])
	assert.NoError(t, err)
	assert.Equal(t, int64(24), v)

	v, err = msg.Value(452)
	assert.NoError(t, err)
	assert.Equal(t, int64(24), v)

	v, err = msg.FieldValue(msg.GetAll(448)[0])
	assert.NoError(t, err)
	assert.Equal(t, "BRKR", v)
}

func TestAssocSeqAgreement(t *testing.T) {
	input := buildMessage('|', "FIX.4.4", "35=8", "453=2", "448=A", "447=D", "452=1", "448=B", "447=D", "452=3", "55=IBM")

	assoc := pipeDecoder()
	seq := pipeDecoder()
	seq.Config().DecodeAssoc = false

	am, err := assoc.Decode(input)
	require.NoError(t, err)
	fields := append([]Field(nil), am.Fields()...)

	sm, err := seq.Decode(input)
	require.NoError(t, err)
	assert.Equal(t, fields, sm.Fields())

	last := make(map[uint32][]byte)
	for _, f := range fields {
		last[f.Tag] = f.Value
	}
	for tag, value := range last {
		af, ok := am.Get(tag)
		assert.True(t, ok)
		assert.Equal(t, value, af.Value, "tag %d", tag)
	}
}

func TestDecodeSeqDisabled(t *testing.T) {
	dec := pipeDecoder()
	dec.Config().DecodeSeq = false

	msg, err := dec.Decode(buildMessage('|', "FIX.4.4", "35=0"))
	require.NoError(t, err)
	assert.Nil(t, msg.Fields())
	assert.Equal(t, 4, msg.Len())
	assert.Equal(t, "0", msg.MsgType())
}

func TestDataField(t *testing.T) {
	dec := pipeDecoder()
	msg, err := dec.Decode(buildMessage('|', "FIX.4.4", "35=A", "98=0", "108=30", "95=5", "96=a|b|c", "141=Y"))
	require.NoError(t, err)

	data, err := msg.Data(96)
	assert.NoError(t, err)
	assert.Equal(t, []byte("a|b|c"), data)

	flag, err := msg.Bool(141)
	assert.NoError(t, err)
	assert.True(t, flag)

	_, err = dec.Decode(buildMessage('|', "FIX.4.4", "35=A", "95=4", "96=a|b|c", "141=Y"))
	assertErrorKind(t, err, KindFormat)

	_, err = dec.Decode(buildMessage('|', "FIX.4.4", "35=A", "95=x", "96=abc"))
	assertErrorKind(t, err, KindFormat)

	_, err = dec.Decode(buildMessage('|', "FIX.4.4", "35=A", "95=90", "96=abc"))
	assertErrorKind(t, err, KindFormat)
}

func TestTypedAccessors(t *testing.T) {
	dec := NewDecoder(dictionary.FIX44())
	msg, err := dec.Decode([]byte(executionReport))
	require.NoError(t, err)

	seq, err := msg.Uint(34)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1090), seq)

	px, err := msg.Decimal(6)
	assert.NoError(t, err)
	assert.Equal(t, datatype.Decimal{Digits: 11335, Scale: 2}, px)

	ts, err := msg.Timestamp(52)
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2018, 9, 20, 18, 23, 53, 671000000, time.UTC), ts)

	c, err := msg.Char(150)
	assert.NoError(t, err)
	assert.Equal(t, byte('F'), c)

	role, err := msg.Int(452)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), role)

	v, err := msg.Value(34)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1090), v)

	v, err = msg.Value(55)
	assert.NoError(t, err)
	assert.Equal(t, "MSFT", v)

	_, err = msg.Int(55)
	assert.True(t, errors.Is(err, ErrTypeMismatch))
	_, err = msg.Uint(6)
	assert.True(t, errors.Is(err, ErrTypeMismatch))
	_, err = msg.Bool(150)
	assert.True(t, errors.Is(err, ErrTypeMismatch))

	_, err = msg.String(58)
	assert.True(t, errors.Is(err, ErrFieldNotFound))
	_, err = msg.Value(58)
	assert.True(t, errors.Is(err, ErrFieldNotFound))
}

func TestLazyDatatypeErrors(t *testing.T) {
	dec := pipeDecoder()
	msg, err := dec.Decode(buildMessage('|', "FIX.4.4", "35=D", "34=abc", "200=202513", "75=20250230", "5001=custom"))
	require.NoError(t, err)

	_, err = msg.Uint(34)
	assert.True(t, errors.Is(err, datatype.ErrInvalidCharacter))

	_, err = msg.MonthYear(200)
	assert.True(t, errors.Is(err, datatype.ErrOther))

	_, err = msg.Date(75)
	assert.Error(t, err)

	v, err := msg.Value(5001)
	assert.NoError(t, err)
	assert.Equal(t, "custom", v)

	n, err := msg.Int(5001)
	assert.True(t, errors.Is(err, datatype.ErrInvalidCharacter))
	assert.Zero(t, n)
}

func TestConfigFromOptions(t *testing.T) {
	cfg, err := ConfigFromOptions(common.Options{})
	assert.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = ConfigFromOptions(common.Options{
		"separator":      "|",
		"verifyChecksum": false,
		"decodeSeq":      "false",
		"beginStrings":   []string{"FIX.4.4"},
		"maxMessageSize": "4096",
	})
	assert.NoError(t, err)
	assert.Equal(t, Config{
		Separator:      '|',
		VerifyChecksum: false,
		DecodeAssoc:    true,
		DecodeSeq:      false,
		BeginStrings:   []string{"FIX.4.4"},
		MaxMessageSize: 4096,
	}, cfg)
	assert.Equal(t, DefaultMaxMessageSize, DefaultConfig().MaxMessageSize)

	_, err = ConfigFromOptions(common.Options{"separator": "="})
	assert.Error(t, err)
	_, err = ConfigFromOptions(common.Options{"decodeAssoc": "maybe"})
	assert.Error(t, err)
	_, err = ConfigFromOptions(common.Options{"maxMessageSize": "huge"})
	assert.Error(t, err)
}

func BenchmarkDecode(b *testing.B) {
	dec := NewDecoder(dictionary.FIX44())
	input := []byte(executionReport)

	b.ReportAllocs()
	b.ResetTimer()
	b.SetBytes(int64(len(input)))

	for i := 0; i < b.N; i++ {
		if _, err := dec.Decode(input); err != nil {
			b.Fatal(err)
		}
	}
}
