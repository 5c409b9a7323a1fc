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

package exporter

import (
	"io"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Records RecordsConfig `config:"records"`
	Raw     RawConfig     `config:"raw"`
}

// OutputConfig 输出目标 Console 为 true 时写入标准输出 否则写入滚动文件
type OutputConfig struct {
	Console    bool   `config:"console"`
	Filename   string `config:"filename"`
	MaxSize    int    `config:"maxSize"`
	MaxBackups int    `config:"maxBackups"`
	MaxAge     int    `config:"maxAge"`
}

func (oc *OutputConfig) validate(filename string) {
	if oc.Filename == "" {
		oc.Filename = filename
	}
	if oc.MaxSize <= 0 {
		oc.MaxSize = 100
	}
	if oc.MaxAge <= 0 {
		oc.MaxAge = 7
	}
	if oc.MaxBackups <= 0 {
		oc.MaxBackups = 10
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// NewWriter 按配置创建输出
//
// 标准输出不会被 Close 关闭
func (oc *OutputConfig) NewWriter() io.WriteCloser {
	if oc.Console {
		return nopCloser{Writer: os.Stdout}
	}
	return &lumberjack.Logger{
		Filename:   oc.Filename,
		MaxSize:    oc.MaxSize,
		MaxBackups: oc.MaxBackups,
		MaxAge:     oc.MaxAge,
		LocalTime:  true,
	}
}

// RecordsConfig 以 JSON Lines 输出解码结果
type RecordsConfig struct {
	Enabled bool `config:"enabled"`
	Pretty  bool `config:"pretty"`

	OutputConfig `config:",inline"`
}

func (rc *RecordsConfig) Validate() {
	rc.validate("fixcodec.records")
}

// RawConfig 输出原始 tag-value 报文 每条消息一行
//
// Separator 非空时用于替换报文中的字段分隔符 便于阅读
type RawConfig struct {
	Enabled   bool   `config:"enabled"`
	Separator string `config:"separator"`

	OutputConfig `config:",inline"`
}

func (rc *RawConfig) Validate() {
	rc.validate("fixcodec.raw")
}
