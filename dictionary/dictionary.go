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

package dictionary

import (
	"maps"
	"slices"
	"sort"

	"github.com/packetd/fixcodec/datatype"
)

// denseTagLimit 小于该值的 tag 使用数组下标直接寻址 其余走 map
//
// 标准字段编号均在此范围内 自定义字段 (5000+/10000+) 通常比较稀疏
const denseTagLimit = 8192

// FieldDescriptor 字段元数据
type FieldDescriptor struct {
	Tag      uint32
	Name     string
	Datatype datatype.Type

	// DataTag 仅对 Length 类型字段有效 指向其描述长度的 Data 字段
	// 解码时 Data 字段按长度读取 其值允许包含分隔符
	DataTag uint32

	// Values 枚举值 -> 描述 可为空
	Values map[string]string
}

// Base 返回字段值对应的基础类型
func (fd FieldDescriptor) Base() datatype.Base {
	return fd.Datatype.Base()
}

func (fd FieldDescriptor) clone() FieldDescriptor {
	fd.Values = maps.Clone(fd.Values)
	return fd
}

// Describe 返回枚举值描述 不存在时返回空字符串
func (fd FieldDescriptor) Describe(value string) string {
	return fd.Values[value]
}

// FieldRef 消息中对字段的引用
type FieldRef struct {
	Tag      uint32
	Required bool
}

// MessageSchema 消息类型的字段构成
//
// 重复组与组件均已展开为扁平的字段列表 顺序与字典定义一致
type MessageSchema struct {
	MsgType  string
	Name     string
	Category string
	Fields   []FieldRef
}

func (ms MessageSchema) clone() MessageSchema {
	ms.Fields = slices.Clone(ms.Fields)
	return ms
}

// Contains 判断消息是否声明了 tag
func (ms MessageSchema) Contains(tag uint32) bool {
	for _, ref := range ms.Fields {
		if ref.Tag == tag {
			return true
		}
	}
	return false
}

// RequiredTags 返回必填字段列表
func (ms MessageSchema) RequiredTags() []uint32 {
	var tags []uint32
	for _, ref := range ms.Fields {
		if ref.Required {
			tags = append(tags, ref.Tag)
		}
	}
	return tags
}

// Dictionary 某个 FIX 版本的字段与消息定义
//
// Dictionary 由 Builder 构建 构建后只读 可以被任意多个 decoder 以及 goroutine 共享
type Dictionary struct {
	name        string
	beginString string

	fields   []FieldDescriptor
	dense    []int32 // tag -> fields 下标 +1 0 代表不存在
	sparse   map[uint32]int32
	byName   map[string]int32
	messages map[string]MessageSchema

	header  []FieldRef
	trailer []FieldRef
}

// Name 返回字典名称 如 "FIX44"
func (d *Dictionary) Name() string {
	return d.name
}

// BeginString 返回该版本对应的 tag 8 取值 如 "FIX.4.4"
func (d *Dictionary) BeginString() string {
	return d.beginString
}

// Len 返回字段数量
func (d *Dictionary) Len() int {
	return len(d.fields)
}

// field 返回字典内部存储的字段 仅供包内以及只读路径使用
func (d *Dictionary) field(tag uint32) (*FieldDescriptor, bool) {
	var idx int32
	if tag < uint32(len(d.dense)) {
		idx = d.dense[tag]
	} else {
		idx = d.sparse[tag]
	}
	if idx == 0 {
		return nil, false
	}
	return &d.fields[idx-1], true
}

// LookupField 根据 tag 查找字段元数据
//
// 返回值为副本 修改 Values 不会影响字典本身
func (d *Dictionary) LookupField(tag uint32) (FieldDescriptor, bool) {
	fd, ok := d.field(tag)
	if !ok {
		return FieldDescriptor{}, false
	}
	return fd.clone(), true
}

// FieldType 返回 tag 对应的数据类型 解码路径上使用 不产生拷贝
func (d *Dictionary) FieldType(tag uint32) (datatype.Type, bool) {
	fd, ok := d.field(tag)
	if !ok {
		return 0, false
	}
	return fd.Datatype, true
}

// DataTag 返回 Length 字段所描述的 Data 字段 tag 非 Length 字段返回 0
func (d *Dictionary) DataTag(tag uint32) uint32 {
	fd, ok := d.field(tag)
	if !ok {
		return 0
	}
	return fd.DataTag
}

// Describe 返回 tag 取值为 value 时的枚举描述
func (d *Dictionary) Describe(tag uint32, value string) string {
	fd, ok := d.field(tag)
	if !ok {
		return ""
	}
	return fd.Describe(value)
}

// FieldByName 根据字段名称查找字段元数据
func (d *Dictionary) FieldByName(name string) (FieldDescriptor, bool) {
	idx, ok := d.byName[name]
	if !ok {
		return FieldDescriptor{}, false
	}
	return d.fields[idx-1].clone(), true
}

// FieldName 返回 tag 对应的字段名称 未知 tag 返回空字符串
func (d *Dictionary) FieldName(tag uint32) string {
	fd, ok := d.field(tag)
	if !ok {
		return ""
	}
	return fd.Name
}

// LookupMessageType 根据 MsgType(35) 查找消息定义
func (d *Dictionary) LookupMessageType(code string) (MessageSchema, bool) {
	ms, ok := d.messages[code]
	if !ok {
		return MessageSchema{}, false
	}
	return ms.clone(), true
}

// MessageTypes 返回所有消息类型 按字典序排列
func (d *Dictionary) MessageTypes() []string {
	codes := make([]string, 0, len(d.messages))
	for code := range d.messages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Header 返回标准消息头字段
func (d *Dictionary) Header() []FieldRef {
	return slices.Clone(d.header)
}

// Trailer 返回标准消息尾字段
func (d *Dictionary) Trailer() []FieldRef {
	return slices.Clone(d.trailer)
}

// Range 按 tag 升序遍历所有字段 f 返回 false 时终止
func (d *Dictionary) Range(f func(fd FieldDescriptor) bool) {
	for i := 0; i < len(d.fields); i++ {
		if !f(d.fields[i].clone()) {
			return
		}
	}
}
