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
	"encoding/xml"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html/charset"

	"github.com/packetd/fixcodec/datatype"
)

// QuickFIX 格式的 XML 字典定义
//
// <fix major="4" minor="4">
//   <header>...</header>
//   <trailer>...</trailer>
//   <messages><message name="Heartbeat" msgtype="0" msgcat="admin">...</message></messages>
//   <components>...</components>
//   <fields><field number="8" name="BeginString" type="STRING"/></fields>
// </fix>
type xmlDictionary struct {
	XMLName     xml.Name       `xml:"fix"`
	Type        string         `xml:"type,attr"`
	Major       string         `xml:"major,attr"`
	Minor       string         `xml:"minor,attr"`
	ServicePack string         `xml:"servicepack,attr"`
	Header      xmlComponent   `xml:"header"`
	Trailer     xmlComponent   `xml:"trailer"`
	Messages    []xmlMessage   `xml:"messages>message"`
	Components  []xmlComponent `xml:"components>component"`
	Fields      []xmlField     `xml:"fields>field"`
}

type xmlField struct {
	Number uint32     `xml:"number,attr"`
	Name   string     `xml:"name,attr"`
	Type   string     `xml:"type,attr"`
	Values []xmlValue `xml:"value"`
}

type xmlValue struct {
	Enum        string `xml:"enum,attr"`
	Description string `xml:"description,attr"`
}

type xmlRef struct {
	Name     string `xml:"name,attr"`
	Required string `xml:"required,attr"`
}

type xmlGroup struct {
	Name       string     `xml:"name,attr"`
	Required   string     `xml:"required,attr"`
	Fields     []xmlRef   `xml:"field"`
	Groups     []xmlGroup `xml:"group"`
	Components []xmlRef   `xml:"component"`
}

type xmlComponent struct {
	Name       string     `xml:"name,attr"`
	Fields     []xmlRef   `xml:"field"`
	Groups     []xmlGroup `xml:"group"`
	Components []xmlRef   `xml:"component"`
}

type xmlMessage struct {
	Name       string     `xml:"name,attr"`
	MsgType    string     `xml:"msgtype,attr"`
	MsgCat     string     `xml:"msgcat,attr"`
	Fields     []xmlRef   `xml:"field"`
	Groups     []xmlGroup `xml:"group"`
	Components []xmlRef   `xml:"component"`
}

// LoadQuickFIX 从 QuickFIX 格式的 XML 中加载字典
//
// 组件和重复组会被展开为扁平的字段列表 Data 字段与其长度字段通过命名约定关联
// 例如 RawData <-> RawDataLength / SecureData <-> SecureDataLen
func LoadQuickFIX(r io.Reader) (*Dictionary, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var raw xmlDictionary
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "dictionary: decode quickfix xml")
	}
	if raw.Major == "" {
		return nil, newError("missing major version")
	}

	name, beginString := versionOf(raw)
	l := &quickfixLoader{
		raw:        raw,
		tags:       make(map[string]uint32, len(raw.Fields)),
		components: make(map[string]xmlComponent, len(raw.Components)),
	}
	for _, f := range raw.Fields {
		l.tags[f.Name] = f.Number
	}
	for _, c := range raw.Components {
		l.components[c.Name] = c
	}

	b := NewBuilder(name, beginString)
	for _, f := range raw.Fields {
		fd := FieldDescriptor{
			Tag:      f.Number,
			Name:     f.Name,
			Datatype: datatype.ParseType(f.Type),
			DataTag:  l.dataTagOf(f),
		}
		if len(f.Values) > 0 {
			fd.Values = make(map[string]string, len(f.Values))
			for _, v := range f.Values {
				fd.Values[v.Enum] = v.Description
			}
		}
		b.AddField(fd)
	}

	header, err := l.flatten(raw.Header.Fields, raw.Header.Groups, raw.Header.Components, 0)
	if err != nil {
		return nil, errors.Wrap(err, "header")
	}
	trailer, err := l.flatten(raw.Trailer.Fields, raw.Trailer.Groups, raw.Trailer.Components, 0)
	if err != nil {
		return nil, errors.Wrap(err, "trailer")
	}
	b.SetHeader(header...)
	b.SetTrailer(trailer...)

	for _, m := range raw.Messages {
		fields, err := l.flatten(m.Fields, m.Groups, m.Components, 0)
		if err != nil {
			return nil, errors.Wrapf(err, "message %q", m.Name)
		}
		b.AddMessage(MessageSchema{
			MsgType:  m.MsgType,
			Name:     m.Name,
			Category: m.MsgCat,
			Fields:   fields,
		})
	}
	return b.Build()
}

// versionOf 返回字典名称以及 BeginString
//
// FIX 5.0 及以上的应用层字典没有独立的 BeginString 统一使用 FIXT.1.1
func versionOf(raw xmlDictionary) (string, string) {
	name := "FIX" + raw.Major + raw.Minor
	if raw.ServicePack != "" && raw.ServicePack != "0" {
		name += "SP" + raw.ServicePack
	}

	prefix := "FIX"
	if strings.EqualFold(raw.Type, "FIXT") {
		prefix = "FIXT"
		name = "FIXT" + raw.Major + raw.Minor
	}
	if prefix == "FIX" && raw.Major >= "5" {
		return name, "FIXT.1.1"
	}
	return name, prefix + "." + raw.Major + "." + raw.Minor
}

// maxComponentDepth 避免组件循环引用导致无限递归
const maxComponentDepth = 32

type quickfixLoader struct {
	raw        xmlDictionary
	tags       map[string]uint32
	components map[string]xmlComponent
}

func (l *quickfixLoader) dataTagOf(f xmlField) uint32 {
	if datatype.ParseType(f.Type) != datatype.TypeLength {
		return 0
	}
	for _, suffix := range []string{"Length", "Len"} {
		base, ok := strings.CutSuffix(f.Name, suffix)
		if !ok {
			continue
		}
		tag, ok := l.tags[base]
		if !ok {
			continue
		}
		for _, data := range l.raw.Fields {
			if data.Number == tag && datatype.ParseType(data.Type).Base() == datatype.BaseData {
				return tag
			}
		}
	}
	return 0
}

func (l *quickfixLoader) flatten(fields []xmlRef, groups []xmlGroup, components []xmlRef, depth int) ([]FieldRef, error) {
	if depth > maxComponentDepth {
		return nil, newError("component nesting too deep")
	}

	var out []FieldRef
	for _, f := range fields {
		tag, ok := l.tags[f.Name]
		if !ok {
			return nil, newError("unknown field %q", f.Name)
		}
		out = append(out, FieldRef{Tag: tag, Required: f.Required == "Y"})
	}

	for _, g := range groups {
		tag, ok := l.tags[g.Name]
		if !ok {
			return nil, newError("unknown group %q", g.Name)
		}
		out = append(out, FieldRef{Tag: tag, Required: g.Required == "Y"})

		// 重复组内的字段不单独标记为必填
		sub, err := l.flatten(g.Fields, g.Groups, g.Components, depth+1)
		if err != nil {
			return nil, err
		}
		for _, ref := range sub {
			out = append(out, FieldRef{Tag: ref.Tag})
		}
	}

	for _, ref := range components {
		c, ok := l.components[ref.Name]
		if !ok {
			return nil, newError("unknown component %q", ref.Name)
		}
		sub, err := l.flatten(c.Fields, c.Groups, c.Components, depth+1)
		if err != nil {
			return nil, err
		}
		required := ref.Required == "Y"
		for _, r := range sub {
			out = append(out, FieldRef{Tag: r.Tag, Required: required && r.Required})
		}
	}
	return out, nil
}
