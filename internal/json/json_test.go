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

package json

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncoder(t *testing.T) {
	type T struct {
		Tag   uint32 `json:"tag"`
		Value string `json:"value"`
	}

	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	assert.NoError(t, enc.Encode(T{Tag: 35, Value: "8"}))
	assert.NoError(t, enc.Encode(T{Tag: 55, Value: "MSFT"}))
	assert.Equal(t, "{\"tag\":35,\"value\":\"8\"}\n{\"tag\":55,\"value\":\"MSFT\"}\n", buf.String())

	buf.Reset()
	enc = NewIndentEncoder(&buf, "  ")
	assert.NoError(t, enc.Encode(T{Tag: 35, Value: "8"}))
	assert.Equal(t, "{\n  \"tag\": 35,\n  \"value\": \"8\"\n}\n", buf.String())

	var out T
	b, err := Marshal(T{Tag: 10, Value: "151"})
	assert.NoError(t, err)
	assert.NoError(t, Unmarshal(b, &out))
	assert.Equal(t, T{Tag: 10, Value: "151"}, out)
}
