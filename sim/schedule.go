package sim

import (
	"container/heap"
	"time"
)

// respawn is a deferred bot revival
type respawn struct {
	at    time.Time
	actor *Actor
}

// respawnQueue is a min-heap keyed by fire time
type respawnQueue []respawn

func (q respawnQueue) Len() int           { return len(q) }
func (q respawnQueue) Less(i, j int) bool { return q[i].at.Before(q[j].at) }
func (q respawnQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *respawnQueue) Push(x any)        { *q = append(*q, x.(respawn)) }
func (q *respawnQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// schedule queues a revival of a at fire time at
func (q *respawnQueue) schedule(a *Actor, at time.Time) {
	heap.Push(q, respawn{at: at, actor: a})
}

// due pops every entry whose fire time is not after now, in fire order
func (q *respawnQueue) due(now time.Time) []*Actor {
	var out []*Actor
	for q.Len() > 0 && !(*q)[0].at.After(now) {
		out = append(out, heap.Pop(q).(respawn).actor)
	}
	return out
}
