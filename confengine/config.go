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

package confengine

import (
	"fmt"

	"github.com/elastic/go-ucfg"
	"github.com/elastic/go-ucfg/yaml"
	"github.com/pkg/errors"

	"github.com/packetd/fixcodec/common"
)

var pathSep = ucfg.PathSep(".")

// Config 对 ucfg.Config 的简单封装 路径分隔符为 `.`
type Config struct {
	conf *ucfg.Config
}

func New(conf *ucfg.Config) *Config {
	return &Config{conf: conf}
}

// Has 判断路径是否存在
func (c *Config) Has(s string) bool {
	ok, err := c.conf.Has(s, -1, pathSep)
	if err != nil {
		return false
	}
	return ok
}

// Child 返回子配置
func (c *Config) Child(s string) (*Config, error) {
	content, err := c.conf.Child(s, -1, pathSep)
	if err != nil {
		return nil, err
	}
	return &Config{conf: content}, nil
}

func (c *Config) Unpack(to any) error {
	return c.conf.Unpack(to, pathSep)
}

// Enabled 判断 `<s>.enabled` 是否为 true
func (c *Config) Enabled(s string) bool {
	ok, err := c.conf.Bool(fmt.Sprintf("%s.enabled", s), -1, pathSep)
	if err != nil {
		return false
	}
	return ok
}

// UnpackChild 将子配置反序列化到 to 子配置不存在时 to 保持不变
func (c *Config) UnpackChild(s string, to any) error {
	if !c.Has(s) {
		return nil
	}
	content, err := c.conf.Child(s, -1, pathSep)
	if err != nil {
		return errors.Wrapf(err, "confengine: child %s", s)
	}
	return content.Unpack(to, pathSep)
}

// ChildOptions 将子配置反序列化为 common.Options 子配置不存在时返回空 Options
func (c *Config) ChildOptions(s string) (common.Options, error) {
	opts := common.NewOptions()
	var m map[string]any
	if err := c.UnpackChild(s, &m); err != nil {
		return nil, err
	}
	for k, v := range m {
		opts.Merge(k, v)
	}
	return opts, nil
}

func LoadConfigPath(path string) (*Config, error) {
	config, err := yaml.NewConfigWithFile(path, pathSep)
	if err != nil {
		return nil, err
	}
	return New(config), nil
}

func LoadContent(b []byte) (*Config, error) {
	config, err := yaml.NewConfig(b, pathSep)
	if err != nil {
		return nil, err
	}
	return New(config), nil
}
