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
	"github.com/packetd/fixcodec/dictionary"
)

// Field 一个 tag=value 字段
//
// Value 引用解码器内部 buffer 仅在下一次 Decode 或 Clear 之前有效
type Field struct {
	Tag   uint32
	Value []byte
}

// Message 解码后的消息视图
//
// Message 由解码器复用 调用方不应在下一次 Decode/Clear 后继续持有
type Message struct {
	dict  *dictionary.Dictionary
	assoc bool
	seq   bool

	raw    []byte
	fields []Field
	prev   []int32 // 同一 tag 上一次出现的位置 -1 表示不存在
	index  map[uint32]int32

	bodyLength int
	checksum   uint8
}

func newMessage(dict *dictionary.Dictionary) *Message {
	return &Message{
		dict:  dict,
		index: make(map[uint32]int32),
	}
}

func (m *Message) reset() {
	m.raw = nil
	m.fields = m.fields[:0]
	m.prev = m.prev[:0]
	clear(m.index)
	m.bodyLength = 0
	m.checksum = 0
}

func (m *Message) append(tag uint32, value []byte) {
	idx := int32(len(m.fields))
	m.fields = append(m.fields, Field{Tag: tag, Value: value})
	if !m.assoc {
		return
	}

	last, ok := m.index[tag]
	if !ok {
		last = -1
	}
	m.prev = append(m.prev, last)
	m.index[tag] = idx
}

// Get 返回 tag 最后一次出现的字段
func (m *Message) Get(tag uint32) (Field, bool) {
	if m.assoc {
		idx, ok := m.index[tag]
		if !ok {
			return Field{}, false
		}
		return m.fields[idx], true
	}

	for i := len(m.fields) - 1; i >= 0; i-- {
		if m.fields[i].Tag == tag {
			return m.fields[i], true
		}
	}
	return Field{}, false
}

// GetAll 按到达顺序返回 tag 的所有出现
func (m *Message) GetAll(tag uint32) []Field {
	var out []Field
	if !m.assoc {
		for _, f := range m.fields {
			if f.Tag == tag {
				out = append(out, f)
			}
		}
		return out
	}

	idx, ok := m.index[tag]
	for ok && idx >= 0 {
		out = append(out, m.fields[idx])
		idx = m.prev[idx]
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Fields 按到达顺序返回全部字段 未开启 DecodeSeq 时返回 nil
func (m *Message) Fields() []Field {
	if !m.seq {
		return nil
	}
	return m.fields
}

// Len 返回字段数量 包含首部和 CheckSum 字段
func (m *Message) Len() int {
	return len(m.fields)
}

// Bytes 返回消息原始字节
func (m *Message) Bytes() []byte {
	return m.raw
}

// BeginString 返回 BeginString(8) 字段值
func (m *Message) BeginString() []byte {
	if len(m.fields) == 0 {
		return nil
	}
	return m.fields[0].Value
}

// BodyLength 返回 BodyLength(9) 声明的长度
func (m *Message) BodyLength() int {
	return m.bodyLength
}

// CheckSum 返回 CheckSum(10) 字段声明的校验和
func (m *Message) CheckSum() uint8 {
	return m.checksum
}

// MsgType 返回 MsgType(35) 字段值 不存在时返回空字符串
func (m *Message) MsgType() string {
	f, ok := m.Get(dictionary.TagMsgType)
	if !ok {
		return ""
	}
	return string(f.Value)
}

// Schema 返回 MsgType 在字典中对应的消息定义
func (m *Message) Schema() (dictionary.MessageSchema, bool) {
	if m.dict == nil {
		return dictionary.MessageSchema{}, false
	}
	return m.dict.LookupMessageType(m.MsgType())
}

// Dictionary 返回解码所使用的字典
func (m *Message) Dictionary() *dictionary.Dictionary {
	return m.dict
}
