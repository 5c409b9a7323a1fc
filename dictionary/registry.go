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
	"sort"
	"sync"
)

// Registry 维护 BeginString 与 Dictionary 的映射关系
//
// 读多写少 注册通常发生在进程启动阶段
type Registry struct {
	mut   sync.RWMutex
	dicts map[string]*Dictionary
}

// NewRegistry 创建并返回 *Registry 实例
func NewRegistry() *Registry {
	return &Registry{
		dicts: make(map[string]*Dictionary),
	}
}

// Register 注册字典 同一个 BeginString 不允许重复注册
func (r *Registry) Register(d *Dictionary) error {
	if d == nil || d.BeginString() == "" {
		return newError("register dictionary without begin string")
	}

	r.mut.Lock()
	defer r.mut.Unlock()

	if _, ok := r.dicts[d.BeginString()]; ok {
		return newError("begin string (%s) already registered", d.BeginString())
	}
	r.dicts[d.BeginString()] = d
	return nil
}

// Get 根据 BeginString 获取字典
func (r *Registry) Get(beginString string) (*Dictionary, bool) {
	r.mut.RLock()
	defer r.mut.RUnlock()

	d, ok := r.dicts[beginString]
	return d, ok
}

// BeginStrings 返回已注册的 BeginString 列表
func (r *Registry) BeginStrings() []string {
	r.mut.RLock()
	defer r.mut.RUnlock()

	keys := make([]string, 0, len(r.dicts))
	for k := range r.dicts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var defaultRegistry = NewRegistry()

func init() {
	_ = defaultRegistry.Register(FIX44())
}

// Register 注册字典到默认 Registry
func Register(d *Dictionary) error {
	return defaultRegistry.Register(d)
}

// Get 从默认 Registry 获取字典
func Get(beginString string) (*Dictionary, bool) {
	return defaultRegistry.Get(beginString)
}
