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

package pubsub

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Queue PubSub 返回的订阅队列实例
//
// 队列有界 写满后新元素会被丢弃 发布方永远不会被慢订阅者阻塞
type Queue[T any] interface {
	// ID 队列唯一标识
	ID() string

	// PopTimeout 从队列中弹出一个元素 操作会 block 直到有元素或者超时
	PopTimeout(timeout time.Duration) (T, bool)

	// Push 推送一个元素至队列中 返回是否写入成功
	Push(data T) bool

	// Dropped 返回因队列已满而被丢弃的元素数量
	Dropped() int64

	// Close 关闭并清理队列
	Close()
}

type channel[T any] struct {
	id      string
	ch      chan T
	mut     sync.RWMutex
	closed  bool
	dropped atomic.Int64
}

func newChannel[T any](size int) *channel[T] {
	if size <= 0 {
		size = 1
	}

	return &channel[T]{
		id: uuid.New().String(),
		ch: make(chan T, size),
	}
}

func (ch *channel[T]) ID() string {
	return ch.id
}

func (ch *channel[T]) PopTimeout(timeout time.Duration) (T, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var zero T
	select {
	case data, ok := <-ch.ch:
		return data, ok

	case <-timer.C:
		return zero, false
	}
}

func (ch *channel[T]) Push(data T) bool {
	ch.mut.RLock()
	defer ch.mut.RUnlock()

	if ch.closed {
		return false
	}

	select {
	case ch.ch <- data:
		return true
	default:
		ch.dropped.Add(1)
		return false
	}
}

func (ch *channel[T]) Dropped() int64 {
	return ch.dropped.Load()
}

func (ch *channel[T]) Close() {
	ch.mut.Lock()
	defer ch.mut.Unlock()

	if !ch.closed {
		ch.closed = true
		close(ch.ch)
	}
}

type PubSub[T any] struct {
	mut    sync.RWMutex
	queues map[string]Queue[T]
}

func New[T any]() *PubSub[T] {
	return &PubSub[T]{
		queues: make(map[string]Queue[T]),
	}
}

// Num 返回当前订阅者数量
func (p *PubSub[T]) Num() int {
	p.mut.RLock()
	defer p.mut.RUnlock()

	return len(p.queues)
}

func (p *PubSub[T]) Subscribe(size int) Queue[T] {
	p.mut.Lock()
	defer p.mut.Unlock()

	ch := newChannel[T](size)
	p.queues[ch.ID()] = ch
	return ch
}

func (p *PubSub[T]) Publish(msg T) {
	p.mut.RLock()
	defer p.mut.RUnlock()

	for _, q := range p.queues {
		q.Push(msg)
	}
}

// Unsubscribe 取消订阅并关闭队列 队列中剩余的元素仍可被读取
func (p *PubSub[T]) Unsubscribe(q Queue[T]) {
	p.mut.Lock()
	delete(p.queues, q.ID())
	p.mut.Unlock()

	q.Close()
}
