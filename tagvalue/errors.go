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
	"fmt"

	"github.com/pkg/errors"
)

// Kind 解码错误分类
type Kind uint8

const (
	// KindFormat 结构错误 如缺失 = 非法 tag 缺失首部字段或 CheckSum 字段
	KindFormat Kind = iota + 1

	// KindChecksum 校验和不匹配
	KindChecksum

	// KindUnsupportedVersion BeginString 不在允许列表内
	KindUnsupportedVersion
)

func (k Kind) String() string {
	switch k {
	case KindFormat:
		return "format"
	case KindChecksum:
		return "checksum"
	case KindUnsupportedVersion:
		return "unsupported version"
	}
	return "unknown"
}

// Error 解码错误
//
// 所有错误均不影响解码器实例的后续使用
type Error struct {
	Kind    Kind
	Msg     string
	Version string
}

func (e *Error) Error() string {
	if e.Kind == KindUnsupportedVersion {
		return fmt.Sprintf("tagvalue: %s (%s)", e.Kind, e.Version)
	}
	if e.Msg == "" {
		return fmt.Sprintf("tagvalue: %s error", e.Kind)
	}
	return fmt.Sprintf("tagvalue: %s error: %s", e.Kind, e.Msg)
}

// Is 仅比较错误分类 便于使用 errors.Is(err, ErrChecksum) 判断
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrFormat             = &Error{Kind: KindFormat}
	ErrChecksum           = &Error{Kind: KindChecksum}
	ErrUnsupportedVersion = &Error{Kind: KindUnsupportedVersion}

	ErrFieldNotFound = errors.New("tagvalue: field not found")
	ErrTypeMismatch  = errors.New("tagvalue: datatype mismatch")
)

func formatError(format string, args ...any) error {
	return &Error{Kind: KindFormat, Msg: fmt.Sprintf(format, args...)}
}
