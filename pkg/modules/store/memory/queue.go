// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package memory

import (
	"container/heap"
	"time"
)

// expireQueue implements a priority queue of key expirations, earliest first.
type expireQueue []*expireItem

// expireItem implements an item of the queue.
type expireItem struct {
	key    string
	expire time.Time
	index  int
}

// newExpireQueue creates a new queue.
func newExpireQueue() expireQueue {
	q := make(expireQueue, 0)
	heap.Init(&q)
	return q
}

// Len returns the length of the queue.
func (q expireQueue) Len() int {
	return len(q)
}

// Less compares the expiration of two queued items.
func (q expireQueue) Less(i int, j int) bool {
	return q[i].expire.Before(q[j].expire)
}

// Swap swaps two items into the queue.
func (q expireQueue) Swap(i int, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

// Push pushes a new item in the queue.
func (q *expireQueue) Push(x any) {
	n := len(*q)
	item := x.(*expireItem)
	item.index = n
	*q = append(*q, item)
}

// Pop pops an item from the queue.
func (q *expireQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*q = old[0 : n-1]
	return item
}

// peek returns the earliest item without removing it.
func (q expireQueue) peek() *expireItem {
	if len(q) == 0 {
		return nil
	}
	return q[0]
}

var _ heap.Interface = (*expireQueue)(nil)
