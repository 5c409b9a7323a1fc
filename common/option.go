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

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// Options 松散类型的键值配置 通常来自命令行参数或者 YAML 片段
type Options map[string]any

func NewOptions() Options {
	return make(Options)
}

func (o Options) GetInt(k string) (int, error) {
	return cast.ToIntE(o[k])
}

func (o Options) GetBool(k string) (bool, error) {
	return cast.ToBoolE(o[k])
}

func (o Options) GetStringSlice(k string) ([]string, error) {
	return cast.ToStringSliceE(o[k])
}

// GetSeparator 读取分隔符配置 规则同 ParseSeparator
func (o Options) GetSeparator(k string) (byte, error) {
	v, ok := o[k]
	if !ok {
		return SOH, nil
	}
	if s, ok := v.(string); ok {
		return ParseSeparator(s)
	}
	return cast.ToUint8E(v)
}

func (o Options) Merge(k string, v any) {
	o[k] = v
}

// ParseSeparator 解析字段分隔符
//
// 支持以下写法
// - "SOH" / "\x01" / "^A": 标准分隔符 0x01
// - 单个可打印字符 如 "|"
// - 数值 如 "1" / "0x01" / "0x7c"
func ParseSeparator(s string) (byte, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "SOH", `\X01`, "^A":
		return SOH, nil
	}

	n := s[0]
	if len(s) != 1 || (n >= '0' && n <= '9') {
		var err error
		if n, err = cast.ToUint8E(strings.TrimSpace(s)); err != nil {
			return 0, errors.Wrapf(err, "invalid separator %q", s)
		}
	}
	if n == '=' {
		return 0, errors.Errorf("separator %q conflicts with tag-value delimiter", s)
	}
	return n, nil
}
