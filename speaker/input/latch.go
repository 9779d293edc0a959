package input

import "sync"

// MaxQueued bounds the momentary presses a Latch keeps waiting. Presses
// beyond it are dropped.
const MaxQueued = 32

// Latch is a software Source for hosts without buttons. Press queues a
// momentary press; Hold and Release model a button kept down across reads.
//
// Reads report queued presses one at a time. A press of the same button
// twice in a row is separated by a released sample, so a poller that
// reacts to changes sees every press.
//
// Latch is safe for use from multiple goroutines.
type Latch struct {
	mu     sync.Mutex
	queue  []Buttons
	held   Buttons
	last   Buttons // momentary press reported by the previous Read
	queued bool    // last is still showing
}

// Press queues a momentary press of b. It reports false if the queue is
// full and the press was dropped.
func (l *Latch) Press(b Button) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) >= MaxQueued {
		return false
	}
	l.queue = append(l.queue, Buttons(0).With(b))
	return true
}

// Hold keeps b pressed until Release.
func (l *Latch) Hold(b Button) {
	l.mu.Lock()
	l.held = l.held.With(b)
	l.mu.Unlock()
}

// Release lets go of a held button.
func (l *Latch) Release(b Button) {
	l.mu.Lock()
	l.held &^= Buttons(0).With(b)
	l.mu.Unlock()
}

// Pending returns the number of queued presses not yet reported.
func (l *Latch) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Read returns the held buttons plus the next queued press. After a press
// it returns a released sample first if the next queued press is the same
// button, or if nothing is queued.
func (l *Latch) Read() (Buttons, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.queued && (len(l.queue) == 0 || l.queue[0] == l.last) {
		l.queued = false
		return l.held & Mask, nil
	}
	if len(l.queue) == 0 {
		return l.held & Mask, nil
	}
	next := l.queue[0]
	copy(l.queue, l.queue[1:])
	l.queue = l.queue[:len(l.queue)-1]
	l.last, l.queued = next, true
	return (next | l.held) & Mask, nil
}
