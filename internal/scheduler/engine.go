package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidTriggerTime = errors.New("scheduler: invalid trigger time")
	ErrStopped            = errors.New("scheduler: engine stopped")
)

// Notice is a scheduled notification: the timer engine queues one per
// countdown, tagged with the mode and task it belongs to.
type Notice struct {
	Handle    int64
	Title     string
	Body      string
	Mode      string
	TaskID    string
	TriggerAt time.Time
}

type queueItem struct {
	notice Notice
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].notice.TriggerAt.Before(pq[j].notice.TriggerAt)
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(queueItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

// Engine delivers notices on a channel when their trigger time arrives.
// Scheduling returns a handle; cancelling a handle is idempotent and safe
// after the notice has already fired.
type Engine struct {
	mu        sync.Mutex
	queue     priorityQueue
	cancelled map[int64]struct{}
	out       chan Notice
	wakeup    chan struct{}
	stopCh    chan struct{}
	doneCh    chan struct{}
	started   bool
	stopped   bool
	dropped   uint64
	lastID    int64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:     make(priorityQueue, 0),
		cancelled: make(map[int64]struct{}),
		out:       make(chan Notice, bufferSize),
		wakeup:    make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

func (e *Engine) C() <-chan Notice {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Schedule queues a notice and returns its cancellation handle.
func (e *Engine) Schedule(n Notice) (int64, error) {
	if n.TriggerAt.IsZero() {
		return 0, ErrInvalidTriggerTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return 0, ErrStopped
	}

	e.lastID++
	n.Handle = e.lastID
	heap.Push(&e.queue, queueItem{notice: n})
	e.signalWakeup()
	return n.Handle, nil
}

// Cancel drops a pending notice. Unknown and already-fired handles are
// ignored.
func (e *Engine) Cancel(handle int64) {
	if handle == 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return
	}
	e.cancelled[handle] = struct{}{}
	e.signalWakeup()
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.TriggerAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			due := e.popDue(time.Now().UTC())
			for _, n := range due {
				select {
				case e.out <- n:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

// peek discards cancelled notices from the head of the queue before
// reporting the next trigger.
func (e *Engine) peek() (Notice, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for len(e.queue) > 0 {
		head := e.queue[0].notice
		if _, ok := e.cancelled[head.Handle]; !ok {
			return head, true
		}
		heap.Pop(&e.queue)
		delete(e.cancelled, head.Handle)
	}
	return Notice{}, false
}

func (e *Engine) popDue(now time.Time) []Notice {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Notice, 0)
	for len(e.queue) > 0 {
		next := e.queue[0].notice
		if next.TriggerAt.After(now) {
			break
		}
		item := heap.Pop(&e.queue).(queueItem)
		if _, ok := e.cancelled[item.notice.Handle]; ok {
			delete(e.cancelled, item.notice.Handle)
			continue
		}
		out = append(out, item.notice)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
