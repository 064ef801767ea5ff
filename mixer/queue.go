// SPDX-License-Identifier: EPL-2.0

package mixer

import "sync"

// commandQueue is an unbounded multi-producer, single-consumer queue.
// Producers never wait for the consumer. The consumer takes everything
// pending in one O(1) critical section by swapping in its spare slice, so
// the audio goroutine never blocks behind a long producer and stops
// allocating once both slices have grown to the usual burst size.
type commandQueue struct {
	mu      sync.Mutex
	pending []message
	closed  bool
}

// push enqueues msg and reports whether the queue still accepts commands.
func (q *commandQueue) push(msg message) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.pending = append(q.pending, msg)
	return true
}

// swap returns all pending commands in send order and installs spare,
// emptied, as the new pending slice. The caller must not touch spare
// afterwards and should hand the returned slice back on the next swap.
func (q *commandQueue) swap(spare []message) []message {
	q.mu.Lock()
	defer q.mu.Unlock()

	batch := q.pending
	q.pending = spare[:0]
	return batch
}

// close drops pending commands and rejects new ones.
func (q *commandQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	clear(q.pending)
	q.pending = nil
}

func (q *commandQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
