package main

import (
	"container/heap"
	"sync"
	"time"

	"github.com/jason-s-yu/sojourn/internal/game"
)

// stepClock is a virtual clock: timers fire one at a time, in deadline
// order, when the driver calls RunNext. A whole game runs in milliseconds
// of wall time.
type stepClock struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	queue timerQueue
}

type stepTimer struct {
	c       *stepClock
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func (c *stepClock) AfterFunc(d time.Duration, f func()) game.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &stepTimer{c: c, at: c.now + d, seq: c.seq, f: f}
	c.seq++
	heap.Push(&c.queue, t)
	return t
}

func (t *stepTimer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// RunNext fires the earliest live timer. It reports false when none remain.
func (c *stepClock) RunNext() bool {
	c.mu.Lock()
	for c.queue.Len() > 0 {
		t := heap.Pop(&c.queue).(*stepTimer)
		if t.stopped {
			continue
		}
		t.fired = true
		c.now = t.at
		c.mu.Unlock()
		t.f()
		return true
	}
	c.mu.Unlock()
	return false
}

// Now returns the virtual time elapsed.
func (c *stepClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

type timerQueue []*stepTimer

func (q timerQueue) Len() int { return len(q) }
func (q timerQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}
func (q timerQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *timerQueue) Push(x interface{}) { *q = append(*q, x.(*stepTimer)) }
func (q *timerQueue) Pop() interface{} {
	old := *q
	n := len(old)
	t := old[n-1]
	*q = old[:n-1]
	return t
}
