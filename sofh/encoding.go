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

package sofh

import (
	"fmt"
)

// EncodingType SOFH 首部中的编码类型
//
// 编码类型仅作为元数据 SOFH 不解析 payload 内容
type EncodingType uint16

const (
	EncodingSBEBigEndian    EncodingType = 0x5BE0
	EncodingSBELittleEndian EncodingType = 0xEB50
	EncodingASN1PER         EncodingType = 0xA500
	EncodingASN1BER         EncodingType = 0xA501
	EncodingASN1OER         EncodingType = 0xA502
	EncodingTagValue        EncodingType = 0xF000
	EncodingFIXML           EncodingType = 0xF100
	EncodingJSON            EncodingType = 0xF500
	EncodingGPB             EncodingType = 0x4700

	// FAST 占用 0xFA01-0xFAFF 低位字节为模板标识
	encodingFASTBase EncodingType = 0xFA00

	// 私有编码范围 0x0001-0x00FF
	encodingPrivateMax EncodingType = 0x00FF
)

var encodingNames = map[EncodingType]string{
	EncodingSBEBigEndian:    "SBE1.0-BE",
	EncodingSBELittleEndian: "SBE1.0-LE",
	EncodingASN1PER:         "ASN.1-PER",
	EncodingASN1BER:         "ASN.1-BER",
	EncodingASN1OER:         "ASN.1-OER",
	EncodingTagValue:        "FIX-TagValue",
	EncodingFIXML:           "FIXML",
	EncodingJSON:            "JSON",
	EncodingGPB:             "GPB",
}

// FromCode 根据编码值返回 EncodingType
func FromCode(code uint16) EncodingType {
	return EncodingType(code)
}

// Code 返回编码值
func (e EncodingType) Code() uint16 {
	return uint16(e)
}

// IsFAST 判断是否为 FAST 编码
func (e EncodingType) IsFAST() bool {
	return e > encodingFASTBase && e <= encodingFASTBase|0xFF
}

// IsPrivate 判断是否为私有编码范围
func (e EncodingType) IsPrivate() bool {
	return e > 0 && e <= encodingPrivateMax
}

// Known 判断是否为已定义的编码类型
func (e EncodingType) Known() bool {
	_, ok := encodingNames[e]
	return ok || e.IsFAST()
}

func (e EncodingType) String() string {
	if name, ok := encodingNames[e]; ok {
		return name
	}
	switch {
	case e.IsFAST():
		return fmt.Sprintf("FAST(0x%02X)", uint16(e)&0xFF)
	case e.IsPrivate():
		return fmt.Sprintf("Private(0x%04X)", uint16(e))
	}
	return fmt.Sprintf("Unknown(0x%04X)", uint16(e))
}
