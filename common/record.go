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

package common

// Record 一条解码结果 由 controller 生成 exporter 负责输出
type Record struct {
	Seq         int           `json:"seq"`
	Encoding    string        `json:"encoding,omitempty"`
	PayloadSize int           `json:"payloadSize,omitempty"`
	BeginString string        `json:"beginString,omitempty"`
	BodyLength  int           `json:"bodyLength,omitempty"`
	CheckSum    *uint8        `json:"checkSum,omitempty"`
	MsgType     string        `json:"msgType,omitempty"`
	MsgName     string        `json:"msgName,omitempty"`
	Fields      []RecordField `json:"fields,omitempty"`
	Error       string        `json:"error,omitempty"`

	// Raw 原始报文 仅在下一条消息解码前有效
	Raw []byte `json:"-"`
}

// RecordField 消息中的单个字段
//
// Typed 为按字典类型解析后的值 解析失败时记录在 TypedError
type RecordField struct {
	Tag         uint32 `json:"tag"`
	Name        string `json:"name,omitempty"`
	Value       string `json:"value"`
	Typed       any    `json:"typed,omitempty"`
	TypedError  string `json:"typedError,omitempty"`
	Description string `json:"description,omitempty"`
}
