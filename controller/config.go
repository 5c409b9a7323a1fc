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
	"github.com/packetd/fixcodec/sofh"
)

type Config struct {
	// Dictionary 解码使用的字典
	Dictionary DictionaryConfig `config:"dictionary"`

	// SOFH 输入是否为 SOFH 分帧格式
	SOFH SOFHConfig `config:"sofh"`

	// Record 输出记录包含的内容
	Record RecordConfig `config:"record"`

	// ContinueOnError 消息解码失败时输出错误记录并继续 否则终止
	ContinueOnError bool `config:"continueOnError"`
}

// DictionaryConfig Path 不为空时加载 QuickFIX XML 否则使用内置字典
type DictionaryConfig struct {
	Path        string `config:"path"`
	BeginString string `config:"beginString"`
}

type SOFHConfig struct {
	Enabled      bool `config:"enabled"`
	MaxFrameSize int  `config:"maxFrameSize"`
}

type RecordConfig struct {
	// Typed 按字典类型解析字段值
	Typed bool `config:"typed"`

	// Describe 输出枚举值描述
	Describe bool `config:"describe"`
}

func (c *Config) Validate() {
	if c.Dictionary.BeginString == "" {
		c.Dictionary.BeginString = "FIX.4.4"
	}
	if c.SOFH.MaxFrameSize <= 0 {
		c.SOFH.MaxFrameSize = sofh.DefaultMaxFrameSize
	}
}
