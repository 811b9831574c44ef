package scheduler

import (
	"container/heap"
	"sort"

	"call-scheduler/internal/calls"
)

// before is the queue order: priority desc, scheduled time asc, id asc.
func before(a, b calls.Call) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if !a.ScheduledTime.Equal(b.ScheduledTime) {
		return a.ScheduledTime.Before(b.ScheduledTime)
	}
	return a.ID < b.ID
}

// callHeap implements heap.Interface.
type callHeap []calls.Call

func (h callHeap) Len() int           { return len(h) }
func (h callHeap) Less(i, j int) bool { return before(h[i], h[j]) }
func (h callHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *callHeap) Push(x any)        { *h = append(*h, x.(calls.Call)) }
func (h *callHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	*h = old[:n-1]
	return c
}

// pendingQueue is the priority-ordered working set. Entries are linked to
// the rest of the scheduler by ID only.
type pendingQueue struct {
	h callHeap
}

func (q *pendingQueue) push(c calls.Call) { heap.Push(&q.h, c) }

func (q *pendingQueue) peek() (calls.Call, bool) {
	if len(q.h) == 0 {
		return calls.Call{}, false
	}
	return q.h[0], true
}

func (q *pendingQueue) pop() (calls.Call, bool) {
	if len(q.h) == 0 {
		return calls.Call{}, false
	}
	return heap.Pop(&q.h).(calls.Call), true
}

// remove drops the entry with the given id. Calls with identical fields but
// different ids are untouched.
func (q *pendingQueue) remove(id int64) (calls.Call, bool) {
	for i := range q.h {
		if q.h[i].ID == id {
			return heap.Remove(&q.h, i).(calls.Call), true
		}
	}
	return calls.Call{}, false
}

func (q *pendingQueue) len() int { return len(q.h) }

func (q *pendingQueue) reset() { q.h = q.h[:0] }

// snapshot returns the entries accepted by keep, sorted by scheduled time.
func (q *pendingQueue) snapshot(keep func(calls.Call) bool) []calls.Call {
	out := make([]calls.Call, 0, len(q.h))
	for _, c := range q.h {
		if keep(c) {
			out = append(out, c)
		}
	}
	sortByTimeAsc(out)
	return out
}

func sortByTimeAsc(cs []calls.Call) {
	sort.SliceStable(cs, func(i, j int) bool {
		if !cs[i].ScheduledTime.Equal(cs[j].ScheduledTime) {
			return cs[i].ScheduledTime.Before(cs[j].ScheduledTime)
		}
		return cs[i].ID < cs[j].ID
	})
}

func sortByTimeDesc(cs []calls.Call) {
	sort.SliceStable(cs, func(i, j int) bool {
		if !cs[i].ScheduledTime.Equal(cs[j].ScheduledTime) {
			return cs[i].ScheduledTime.After(cs[j].ScheduledTime)
		}
		return cs[i].ID > cs[j].ID
	})
}
