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
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packetd/fixcodec/dictionary"
)

// chunkReader 每次 Read 最多返回 n 个字节
type chunkReader struct {
	b []byte
	n int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.b) == 0 {
		return 0, io.EOF
	}
	n := min(len(p), r.n, len(r.b))
	copy(p, r.b[:n])
	r.b = r.b[n:]
	return n, nil
}

type decoded struct {
	tag   uint32
	value string
}

func snapshot(msg *Message) []decoded {
	var out []decoded
	for _, f := range msg.Fields() {
		out = append(out, decoded{tag: f.Tag, value: string(f.Value)})
	}
	return out
}

// drain 驱动 BufferedDecoder 直至输入耗尽
func drain(t *testing.T, bd *BufferedDecoder, r io.Reader) [][]decoded {
	t.Helper()

	var msgs [][]decoded
	for {
		if _, err := io.ReadFull(r, bd.SupplyBuffer()); err != nil {
			return msgs
		}
		msg, err := bd.CurrentMessage()
		require.NoError(t, err)
		if msg == nil {
			continue
		}
		assert.Same(t, msg, bd.Message())
		msgs = append(msgs, snapshot(msg))
		bd.Clear()
	}
}

func TestBufferedStates(t *testing.T) {
	bd := NewDecoder(dictionary.FIX44()).Buffered()
	defer bd.Free()

	input := []byte(executionReport)
	assert.Equal(t, StateAwaitingHeader, bd.State())
	assert.Equal(t, 15, bd.NumBytesRequired())

	// 8=FIX.4.4|9=289| 共 16 字节 首次读取不足以覆盖
	buf := bd.SupplyBuffer()
	require.Len(t, buf, 15)
	copy(buf, input)
	msg, err := bd.CurrentMessage()
	assert.NoError(t, err)
	assert.Nil(t, msg)
	assert.Equal(t, StateAwaitingHeader, bd.State())
	assert.Equal(t, 8, bd.NumBytesRequired())

	buf = bd.SupplyBuffer()
	copy(buf, input[15:])
	msg, err = bd.CurrentMessage()
	assert.NoError(t, err)
	assert.Nil(t, msg)
	assert.Nil(t, bd.Message())
	assert.Equal(t, StateAwaitingBody, bd.State())
	assert.Equal(t, 282, bd.NumBytesRequired())

	buf = bd.SupplyBuffer()
	copy(buf, input[23:])
	msg, err = bd.CurrentMessage()
	assert.NoError(t, err)
	assert.Nil(t, msg)
	assert.Equal(t, StateAwaitingChecksum, bd.State())
	assert.Equal(t, 7, bd.NumBytesRequired())

	buf = bd.SupplyBuffer()
	copy(buf, input[305:])
	msg, err = bd.CurrentMessage()
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, StateReady, bd.State())
	assert.Equal(t, 0, bd.NumBytesRequired())
	assert.Nil(t, bd.SupplyBuffer())

	f, ok := bd.Message().Get(55)
	assert.True(t, ok)
	assert.Equal(t, []byte("MSFT"), f.Value)

	again, err := bd.CurrentMessage()
	assert.NoError(t, err)
	assert.Same(t, msg, again)

	bd.Clear()
	assert.Equal(t, StateAwaitingHeader, bd.State())
	assert.Nil(t, bd.Message())
}

func TestBufferedHeaderGrowth(t *testing.T) {
	dec := pipeDecoder()
	bd := dec.Buffered()
	defer bd.Free()
	assert.Equal(t, byte('|'), bd.Config().Separator)

	reqID := strings.Repeat("H", 100)
	input := buildMessage('|', "FIXT.1.1", "35=0", "112="+reqID)
	r := bytes.NewReader(input)

	_, err := io.ReadFull(r, bd.SupplyBuffer())
	require.NoError(t, err)
	msg, err := bd.CurrentMessage()
	require.NoError(t, err)
	assert.Nil(t, msg)
	assert.Equal(t, StateAwaitingHeader, bd.State())
	assert.Equal(t, 8, bd.NumBytesRequired())

	msgs := drain(t, bd, r)
	require.Len(t, msgs, 1)
	assert.Equal(t, decoded{tag: 112, value: reqID}, msgs[0][3])
}

func TestBufferedOverReadIntoChecksum(t *testing.T) {
	bd := pipeDecoder().Buffered()
	defer bd.Free()

	// 8=F|9=5|35=0|10=NNN| 首部区域已覆盖部分 CheckSum 字段
	input := buildMessage('|', "F", "35=0")
	r := bytes.NewReader(input)

	_, err := io.ReadFull(r, bd.SupplyBuffer())
	require.NoError(t, err)
	msg, err := bd.CurrentMessage()
	require.NoError(t, err)
	assert.Nil(t, msg)
	assert.Equal(t, StateAwaitingChecksum, bd.State())
	assert.Equal(t, len(input)-15, bd.NumBytesRequired())

	msgs := drain(t, bd, r)
	assert.Len(t, msgs, 1)
}

func TestBufferedEveryChunkSize(t *testing.T) {
	heartbeat := buildMessage(0x01, "FIX.4.4", "35=0", "34=1091", "49=TESTSELL1", "56=TESTBUY1")
	stream := append([]byte(executionReport), heartbeat...)

	dec := NewDecoder(dictionary.FIX44())
	msg, err := dec.Decode([]byte(executionReport))
	require.NoError(t, err)
	first := snapshot(msg)
	msg, err = dec.Decode(heartbeat)
	require.NoError(t, err)
	second := snapshot(msg)

	bd := dec.Buffered()
	defer bd.Free()
	for n := 1; n <= len(stream); n++ {
		msgs := drain(t, bd, &chunkReader{b: stream, n: n})
		require.Len(t, msgs, 2, "chunk size %d", n)
		assert.Equal(t, first, msgs[0], "chunk size %d", n)
		assert.Equal(t, second, msgs[1], "chunk size %d", n)
		bd.Clear()
	}
}

func TestBufferedResetOnError(t *testing.T) {
	bd := NewDecoder(dictionary.FIX44()).Buffered()
	defer bd.Free()

	bad := strings.Replace(executionReport, "10=151", "10=150", 1)
	r := bytes.NewReader([]byte(bad + executionReport))

	var err error
	for err == nil {
		_, rerr := io.ReadFull(r, bd.SupplyBuffer())
		require.NoError(t, rerr)
		_, err = bd.CurrentMessage()
	}
	assert.True(t, errors.Is(err, ErrChecksum))
	assert.Equal(t, StateAwaitingHeader, bd.State())
	assert.Equal(t, 15, bd.NumBytesRequired())

	msgs := drain(t, bd, r)
	require.Len(t, msgs, 1)
	assert.Equal(t, decoded{tag: 55, value: "MSFT"}, msgs[0][20])
}

func TestBufferedHeaderErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "NotBeginString", input: "35=0|8=FIX.4.4|9=5|"},
		{name: "NotBodyLength", input: "8=FIX.4.4|35=0|9=5|"},
		{name: "HeaderTooLong", input: "8=" + strings.Repeat("X", 80) + "|9=5|35=0|10=000|"},
		{name: "BodyLengthExceedsLimit", input: "8=FIX.4.4|9=2000000000|35=0|"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bd := pipeDecoder().Buffered()
			defer bd.Free()

			r := strings.NewReader(tt.input)
			var err error
			for err == nil {
				_, rerr := io.ReadFull(r, bd.SupplyBuffer())
				require.NoError(t, rerr)
				_, err = bd.CurrentMessage()
			}
			assertErrorKind(t, err, KindFormat)
			assert.Equal(t, StateAwaitingHeader, bd.State())
		})
	}
}

func TestBufferedShortMessage(t *testing.T) {
	bd := pipeDecoder().Buffered()
	defer bd.Free()

	// 8=A|9=0|10=NNN| 共 15 字节
	short := buildMessage('|', "A")
	require.Len(t, short, 15)
	input := append(append([]byte{}, short...), buildMessage('|', "FIX.4.4", "35=0")...)
	input = append(input, short...)

	msgs := drain(t, bd, bytes.NewReader(input))
	require.Len(t, msgs, 3)
	assert.Equal(t, []decoded{{tag: 8, value: "A"}, {tag: 9, value: "0"}, {tag: 10, value: string(short[11:14])}}, msgs[0])
	assert.Equal(t, msgs[0], msgs[2])
	assert.Equal(t, decoded{tag: 35, value: "0"}, msgs[1][2])
}

func TestBufferedMaxMessageSize(t *testing.T) {
	t.Run("HostileBodyLength", func(t *testing.T) {
		bd := pipeDecoder().Buffered()
		defer bd.Free()

		r := strings.NewReader("8=FIX.4.4|9=2000000000|")
		var err error
		for err == nil {
			_, rerr := io.ReadFull(r, bd.SupplyBuffer())
			require.NoError(t, rerr)
			_, err = bd.CurrentMessage()
		}
		assertErrorKind(t, err, KindFormat)
		assert.Equal(t, StateAwaitingHeader, bd.State())
		assert.Less(t, cap(bd.buf.B), DefaultMaxMessageSize)
	})

	t.Run("CustomLimit", func(t *testing.T) {
		dec := NewDecoder(dictionary.FIX44())
		dec.Config().MaxMessageSize = 100
		bd := dec.Buffered()
		defer bd.Free()

		r := bytes.NewReader([]byte(executionReport))
		var err error
		for err == nil {
			_, rerr := io.ReadFull(r, bd.SupplyBuffer())
			require.NoError(t, rerr)
			_, err = bd.CurrentMessage()
		}
		assertErrorKind(t, err, KindFormat)
		assert.Contains(t, err.Error(), "exceeds limit 100")
	})

	t.Run("Unlimited", func(t *testing.T) {
		dec := NewDecoder(dictionary.FIX44())
		dec.Config().MaxMessageSize = 0
		bd := dec.Buffered()
		defer bd.Free()

		msgs := drain(t, bd, bytes.NewReader([]byte(executionReport)))
		assert.Len(t, msgs, 1)
	})
}

func TestBufferedFree(t *testing.T) {
	bd := NewDecoder(dictionary.FIX44()).Buffered()
	bd.Free()
	assert.Equal(t, StateAwaitingHeader, bd.State())

	msg, err := bd.CurrentMessage()
	assert.NoError(t, err)
	assert.Nil(t, msg)

	msgs := drain(t, bd, bytes.NewReader([]byte(executionReport)))
	assert.Len(t, msgs, 1)
	bd.Free()
}

func BenchmarkBufferedDecoder(b *testing.B) {
	bd := NewDecoder(dictionary.FIX44()).Buffered()
	defer bd.Free()
	input := []byte(executionReport)

	b.ReportAllocs()
	b.ResetTimer()
	b.SetBytes(int64(len(input)))

	for i := 0; i < b.N; i++ {
		r := bytes.NewReader(input)
		for {
			if _, err := io.ReadFull(r, bd.SupplyBuffer()); err != nil {
				b.Fatal(err)
			}
			msg, err := bd.CurrentMessage()
			if err != nil {
				b.Fatal(err)
			}
			if msg != nil {
				bd.Clear()
				break
			}
		}
	}
}
