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

const (
	// App 应用程序名称
	App = "fixcodec"

	// Version 应用程序版本
	Version = "v0.1.0"

	// SOH FIX tag-value 协议约定的字段分隔符
	SOH byte = 0x01

	// ReadBlockSize 命令行工具单次读取的块大小
	ReadBlockSize = 4096
)
