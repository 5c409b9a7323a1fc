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

package controller

import (
	"fmt"
	"time"

	"github.com/packetd/fixcodec/common"
	"github.com/packetd/fixcodec/tagvalue"
)

func (c *Controller) newRecord(seq int, msg *tagvalue.Message) *common.Record {
	checksum := msg.CheckSum()
	record := &common.Record{
		Seq:         seq,
		BeginString: string(msg.BeginString()),
		BodyLength:  msg.BodyLength(),
		CheckSum:    &checksum,
		MsgType:     msg.MsgType(),
		Raw:         msg.Bytes(),
	}
	if schema, ok := msg.Schema(); ok {
		record.MsgName = schema.Name
	}

	fields := msg.Fields()
	if fields == nil {
		fields = collectFields(msg)
	}
	record.Fields = make([]common.RecordField, 0, len(fields))
	for _, f := range fields {
		record.Fields = append(record.Fields, c.newRecordField(msg, f))
	}
	return record
}

// collectFields 在未开启 DecodeSeq 时按字典声明的顺序 (header -> body -> trailer) 收集字段
//
// 字典中未声明的字段会被忽略
func collectFields(msg *tagvalue.Message) []tagvalue.Field {
	dict := msg.Dictionary()
	if dict == nil {
		return nil
	}

	seen := make(map[uint32]struct{})
	var fields []tagvalue.Field
	add := func(tag uint32) {
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		fields = append(fields, msg.GetAll(tag)...)
	}

	for _, ref := range dict.Header() {
		add(ref.Tag)
	}
	if schema, ok := msg.Schema(); ok {
		for _, ref := range schema.Fields {
			add(ref.Tag)
		}
	}
	for _, ref := range dict.Trailer() {
		add(ref.Tag)
	}
	return fields
}

func (c *Controller) newRecordField(msg *tagvalue.Message, f tagvalue.Field) common.RecordField {
	rf := common.RecordField{
		Tag:   f.Tag,
		Value: string(f.Value),
	}

	if dict := msg.Dictionary(); dict != nil {
		rf.Name = dict.FieldName(f.Tag)
		if c.cfg.Record.Describe {
			rf.Description = dict.Describe(f.Tag, rf.Value)
		}
	}

	if c.cfg.Record.Typed {
		v, err := msg.FieldValue(f)
		if err != nil {
			rf.TypedError = err.Error()
		} else {
			rf.Typed = jsonValue(v)
		}
	}
	return rf
}

// jsonValue 将类型化的值转换为适合 JSON 输出的形式
func jsonValue(v any) any {
	switch val := v.(type) {
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case byte:
		return string([]byte{val})
	case []byte:
		return string(val)
	case fmt.Stringer:
		return val.String()
	}
	return v
}
