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

package stream

import (
	"github.com/packetd/fixcodec/logger"
)

type options struct {
	log          logger.Logger
	maxFrameSize int
}

// Option Reader 以及 FramedReader 的可选配置
type Option func(*options)

// WithLogger 指定组件 Logger 默认使用 logger.Named("stream")
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithMaxFrameSize 指定 SOFH 帧的最大长度
func WithMaxFrameSize(n int) Option {
	return func(o *options) {
		o.maxFrameSize = n
	}
}

func newOptions(opts []Option) options {
	o := options{
		log: logger.Named("stream"),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
