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

package sigs

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

var terminateSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// Terminate 等待终止信号
func Terminate() chan os.Signal {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, terminateSignals...)
	return ch
}

// WithTerminate 返回在收到终止信号时被取消的 Context
func WithTerminate(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, terminateSignals...)
}
