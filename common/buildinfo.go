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
	"fmt"
	"runtime"
	"time"
)

// BuildInfo 代表程序构建信息
//
// 字段通过 -ldflags "-X" 在编译期注入
type BuildInfo struct {
	Version   string
	GitHash   string
	Time      string
	GoVersion string
}

func (bi BuildInfo) String() string {
	return fmt.Sprintf("%s %s (git: %s, built: %s, %s)", App, bi.Version, bi.GitHash, bi.Time, bi.GoVersion)
}

var (
	buildVersion string
	buildTime    string
	buildHash    string
)

func GetBuildInfo() BuildInfo {
	version := buildVersion
	if version == "" {
		version = Version
	}
	return BuildInfo{
		Version:   version,
		GitHash:   buildHash,
		Time:      buildTime,
		GoVersion: runtime.Version(),
	}
}

var started int64

func init() {
	started = time.Now().Unix()
}

// Started 返回进程启动时间 (unix 秒)
func Started() int64 {
	return started
}
