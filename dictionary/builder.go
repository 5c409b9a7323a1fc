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
	"slices"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/packetd/fixcodec/datatype"
)

func newError(format string, args ...any) error {
	format = "dictionary: " + format
	return errors.Errorf(format, args...)
}

// Builder 构建 Dictionary
//
// Builder 本身不是并发安全的 Build 成功后 Builder 不应再被使用
type Builder struct {
	name        string
	beginString string
	fields      []FieldDescriptor
	messages    []MessageSchema
	header      []FieldRef
	trailer     []FieldRef
}

// NewBuilder 创建并返回 *Builder 实例
func NewBuilder(name, beginString string) *Builder {
	return &Builder{
		name:        name,
		beginString: beginString,
	}
}

// AddField 追加字段定义
func (b *Builder) AddField(fd FieldDescriptor) *Builder {
	b.fields = append(b.fields, fd)
	return b
}

// AddMessage 追加消息定义
func (b *Builder) AddMessage(ms MessageSchema) *Builder {
	b.messages = append(b.messages, ms)
	return b
}

// SetHeader 设置标准消息头字段
func (b *Builder) SetHeader(refs ...FieldRef) *Builder {
	b.header = refs
	return b
}

// SetTrailer 设置标准消息尾字段
func (b *Builder) SetTrailer(refs ...FieldRef) *Builder {
	b.trailer = refs
	return b
}

// Build 校验并生成只读的 Dictionary
//
// 所有校验错误会被汇总后一并返回
func (b *Builder) Build() (*Dictionary, error) {
	var errs error

	fields := make([]FieldDescriptor, 0, len(b.fields))
	seenTag := make(map[uint32]struct{}, len(b.fields))
	seenName := make(map[string]struct{}, len(b.fields))
	for _, fd := range b.fields {
		if fd.Tag == 0 {
			errs = multierror.Append(errs, newError("field %q has zero tag", fd.Name))
			continue
		}
		if fd.Name == "" {
			errs = multierror.Append(errs, newError("field %d has empty name", fd.Tag))
			continue
		}
		if _, ok := seenTag[fd.Tag]; ok {
			errs = multierror.Append(errs, newError("duplicate tag %d (%s)", fd.Tag, fd.Name))
			continue
		}
		if _, ok := seenName[fd.Name]; ok {
			errs = multierror.Append(errs, newError("duplicate field name %q", fd.Name))
			continue
		}
		seenTag[fd.Tag] = struct{}{}
		seenName[fd.Name] = struct{}{}
		fields = append(fields, fd.clone())
	}
	sort.Slice(fields, func(i, j int) bool {
		return fields[i].Tag < fields[j].Tag
	})

	d := &Dictionary{
		name:        b.name,
		beginString: b.beginString,
		fields:      fields,
		sparse:      make(map[uint32]int32),
		byName:      make(map[string]int32, len(fields)),
		messages:    make(map[string]MessageSchema, len(b.messages)),
	}

	var maxDense uint32
	for _, fd := range fields {
		if fd.Tag < denseTagLimit && fd.Tag > maxDense {
			maxDense = fd.Tag
		}
	}
	d.dense = make([]int32, maxDense+1)
	for i, fd := range fields {
		idx := int32(i + 1)
		if fd.Tag < denseTagLimit {
			d.dense[fd.Tag] = idx
		} else {
			d.sparse[fd.Tag] = idx
		}
		d.byName[fd.Name] = idx
	}

	for _, fd := range fields {
		if fd.DataTag == 0 {
			continue
		}
		if fd.Datatype != datatype.TypeLength {
			errs = multierror.Append(errs, newError("field %d declares data tag but is %s", fd.Tag, fd.Datatype))
			continue
		}
		data, ok := d.LookupField(fd.DataTag)
		if !ok || data.Datatype.Base() != datatype.BaseData {
			errs = multierror.Append(errs, newError("field %d refers to invalid data field %d", fd.Tag, fd.DataTag))
		}
	}

	for _, ms := range b.messages {
		if ms.MsgType == "" {
			errs = multierror.Append(errs, newError("message %q has empty msgtype", ms.Name))
			continue
		}
		if _, ok := d.messages[ms.MsgType]; ok {
			errs = multierror.Append(errs, newError("duplicate msgtype %q", ms.MsgType))
			continue
		}
		if err := d.checkRefs(ms.Fields); err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "message %q", ms.MsgType))
			continue
		}
		d.messages[ms.MsgType] = ms.clone()
	}

	if err := d.checkRefs(b.header); err != nil {
		errs = multierror.Append(errs, errors.Wrap(err, "header"))
	}
	if err := d.checkRefs(b.trailer); err != nil {
		errs = multierror.Append(errs, errors.Wrap(err, "trailer"))
	}
	d.header = slices.Clone(b.header)
	d.trailer = slices.Clone(b.trailer)

	if errs != nil {
		return nil, errs
	}
	return d, nil
}

func (d *Dictionary) checkRefs(refs []FieldRef) error {
	for _, ref := range refs {
		if _, ok := d.LookupField(ref.Tag); !ok {
			return newError("unknown tag %d", ref.Tag)
		}
	}
	return nil
}
