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
	"github.com/pkg/errors"

	"github.com/packetd/fixcodec/common"
)

// DefaultMaxMessageSize 默认的单条消息最大字节数
const DefaultMaxMessageSize = 1 << 20

// Config 解码器配置
//
// Config 为值类型 由所属的解码器持有 仅允许在两条消息之间修改
type Config struct {
	// Separator 字段分隔符 默认为 SOH(0x01)
	Separator byte

	// VerifyChecksum 是否校验 CheckSum(10) 字段
	VerifyChecksum bool

	// DecodeAssoc 是否构建 tag -> field 的索引
	DecodeAssoc bool

	// DecodeSeq 是否按到达顺序暴露字段列表
	DecodeSeq bool

	// BeginStrings 允许的 BeginString(8) 取值 为空时不做限制
	BeginStrings []string

	// MaxMessageSize 单条消息 (含首部与 CheckSum) 允许的最大字节数
	// BufferedDecoder 在解析完首部后即按此校验 超出时返回 Format 错误 <= 0 时不做限制
	MaxMessageSize int
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Separator:      common.SOH,
		VerifyChecksum: true,
		DecodeAssoc:    true,
		DecodeSeq:      true,
		MaxMessageSize: DefaultMaxMessageSize,
	}
}

// ConfigFromOptions 从 Options 中解析配置 未声明的选项保持默认值
//
// 支持的选项: separator / verifyChecksum / decodeAssoc / decodeSeq / beginStrings / maxMessageSize
func ConfigFromOptions(opts common.Options) (Config, error) {
	cfg := DefaultConfig()

	var err error
	if cfg.Separator, err = opts.GetSeparator("separator"); err != nil {
		return cfg, errors.Wrap(err, "tagvalue: option separator")
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{key: "verifyChecksum", dst: &cfg.VerifyChecksum},
		{key: "decodeAssoc", dst: &cfg.DecodeAssoc},
		{key: "decodeSeq", dst: &cfg.DecodeSeq},
	}
	for _, b := range bools {
		if _, ok := opts[b.key]; !ok {
			continue
		}
		if *b.dst, err = opts.GetBool(b.key); err != nil {
			return cfg, errors.Wrapf(err, "tagvalue: option %s", b.key)
		}
	}

	if _, ok := opts["maxMessageSize"]; ok {
		if cfg.MaxMessageSize, err = opts.GetInt("maxMessageSize"); err != nil {
			return cfg, errors.Wrap(err, "tagvalue: option maxMessageSize")
		}
	}

	if _, ok := opts["beginStrings"]; ok {
		if cfg.BeginStrings, err = opts.GetStringSlice("beginStrings"); err != nil {
			return cfg, errors.Wrap(err, "tagvalue: option beginStrings")
		}
	}
	return cfg, nil
}

func (c *Config) acceptVersion(v []byte) bool {
	if len(c.BeginStrings) == 0 {
		return true
	}
	for _, s := range c.BeginStrings {
		if s == string(v) {
			return true
		}
	}
	return false
}
