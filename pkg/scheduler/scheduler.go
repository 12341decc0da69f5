package scheduler

import (
	"container/heap"
	"sync"
	"time"

	"github.com/korjavin/lunchbot/pkg/logger"
)

// Clock abstracts wall-clock access so tests can inject a fixed time source.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the real wall clock.
func SystemClock() Clock { return systemClock{} }

// entry is one pending reminder in the queue.
type entry struct {
	at       time.Time
	fn       func()
	seq      uint64
	index    int
	canceled bool
}

// entryQueue is a min-heap ordered by fire time, then scheduling order.
type entryQueue []*entry

func (q entryQueue) Len() int { return len(q) }

func (q entryQueue) Less(i, j int) bool {
	if q[i].at.Equal(q[j].at) {
		return q[i].seq < q[j].seq
	}
	return q[i].at.Before(q[j].at)
}

func (q entryQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *entryQueue) Push(x interface{}) {
	e := x.(*entry)
	e.index = len(*q)
	*q = append(*q, e)
}

func (q *entryQueue) Pop() interface{} {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*q = old[:n-1]
	return e
}

// Handle identifies a scheduled reminder and allows revoking it before it
// fires. No chat command cancels reminders today; the handle keeps that
// possible without restructuring.
type Handle struct {
	s *Scheduler
	e *entry
}

// Cancel revokes the reminder. It reports whether the reminder was still
// pending; canceling an already-fired reminder is a no-op.
func (h *Handle) Cancel() bool {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	if h.e.canceled || h.e.index < 0 {
		return false
	}
	h.e.canceled = true
	heap.Remove(&h.s.queue, h.e.index)
	return true
}

// Scheduler fires one-shot callbacks at their scheduled wall-clock time.
// A background driver wakes on a ticker, compares the queue head against the
// clock and runs every due callback exactly once. Reminders whose time is
// already in the past fire on the next tick; they are never skipped.
// Nothing is persisted: pending reminders are lost on restart.
type Scheduler struct {
	mu       sync.Mutex
	clock    Clock
	interval time.Duration
	queue    entryQueue
	seq      uint64
	wake     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
	log      *logger.Logger
}

// New creates a scheduler that checks for due reminders every interval.
func New(clock Clock, interval time.Duration) *Scheduler {
	return &Scheduler{
		clock:    clock,
		interval: interval,
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		log:      logger.New("scheduler"),
	}
}

// Start starts the driver goroutine.
func (s *Scheduler) Start() {
	s.log.Info("Starting reminder scheduler, tick interval %v", s.interval)
	go s.run()
}

// Stop stops the driver. Pending reminders are dropped.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.log.Info("Stopping reminder scheduler")
		close(s.stop)
	})
}

// Schedule queues fn to run at the given instant and returns its handle.
func (s *Scheduler) Schedule(at time.Time, fn func()) *Handle {
	s.mu.Lock()
	s.seq++
	e := &entry{at: at, fn: fn, seq: s.seq}
	heap.Push(&s.queue, e)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return &Handle{s: s, e: e}
}

// ScheduleAt queues fn for today at hour:minute (zero seconds) in the local
// time of the injected clock.
func (s *Scheduler) ScheduleAt(hour, minute int, fn func()) *Handle {
	now := s.clock.Now()
	at := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	return s.Schedule(at, fn)
}

func (s *Scheduler) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.fireDue()
		select {
		case <-ticker.C:
		case <-s.wake:
		case <-s.stop:
			return
		}
	}
}

// fireDue pops and runs every entry whose fire time has been reached.
// Callbacks run outside the scheduler lock so they may schedule or cancel.
func (s *Scheduler) fireDue() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 || s.queue[0].at.After(s.clock.Now()) {
			s.mu.Unlock()
			return
		}
		e := heap.Pop(&s.queue).(*entry)
		s.mu.Unlock()

		s.log.Debug("Firing reminder scheduled for %s", e.at.Format("15:04"))
		e.fn()
	}
}
