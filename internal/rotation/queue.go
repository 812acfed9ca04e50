package rotation

// maxPickAttempts bounds rejection sampling per pick, as a multiple of the
// queue length. Past it the first unplayed position is taken.
const maxPickAttempts = 8

// Queue dispenses items in a random order without repeating any item until
// every item has been played, then reshuffles. The items played in the
// current round form the history that Previous walks back through.
type Queue[T any] struct {
	rng     Rand
	items   []T
	played  []bool
	history []int
}

// NewQueue creates an empty queue. A nil rng uses NewRand.
func NewQueue[T any](rng Rand) *Queue[T] {
	if rng == nil {
		rng = NewRand()
	}
	return &Queue[T]{rng: rng}
}

// Load replaces the queue's items, shuffles them and clears the history.
// Loading no items empties the queue.
func (q *Queue[T]) Load(items []T) {
	q.items = append([]T(nil), items...)
	q.played = make([]bool, len(q.items))
	q.history = nil
	shuffle(q.rng, q.items)
}

// Next returns the next item of the rotation. It returns false only when the
// queue is empty.
func (q *Queue[T]) Next() (T, bool) {
	var zero T
	n := len(q.items)
	if n == 0 {
		return zero, false
	}
	if len(q.history) >= n {
		q.newRound()
	}

	pos := q.pick()
	q.played[pos] = true
	q.history = append(q.history, pos)
	return q.items[pos], true
}

// pick draws a uniformly random unplayed position. At least one position is
// always unplayed when it is called.
func (q *Queue[T]) pick() int {
	n := len(q.items)
	for attempt := 0; attempt < maxPickAttempts*n; attempt++ {
		if pos := q.rng.IntN(n); !q.played[pos] {
			return pos
		}
	}
	for pos, done := range q.played {
		if !done {
			return pos
		}
	}
	return 0
}

func (q *Queue[T]) newRound() {
	q.history = q.history[:0]
	clear(q.played)
	shuffle(q.rng, q.items)
}

// Previous steps back to the item played before the current one. It returns
// false when fewer than two items were played in the current round. The
// current item becomes eligible to play again.
func (q *Queue[T]) Previous() (T, bool) {
	var zero T
	if len(q.history) < 2 {
		return zero, false
	}
	top := q.history[len(q.history)-1]
	q.history = q.history[:len(q.history)-1]
	q.played[top] = false
	return q.items[q.history[len(q.history)-1]], true
}

// Current returns the most recently dispensed item.
func (q *Queue[T]) Current() (T, bool) {
	var zero T
	if len(q.history) == 0 {
		return zero, false
	}
	return q.items[q.history[len(q.history)-1]], true
}

// Len returns the number of loaded items.
func (q *Queue[T]) Len() int {
	return len(q.items)
}

// PlayedCount returns how many items were played in the current round.
func (q *Queue[T]) PlayedCount() int {
	return len(q.history)
}

// Reset keeps the items, clears the history and reshuffles.
func (q *Queue[T]) Reset() {
	if len(q.items) == 0 {
		q.history = nil
		return
	}
	q.newRound()
}

// Clear removes all items and history.
func (q *Queue[T]) Clear() {
	q.items = nil
	q.played = nil
	q.history = nil
}

// Items returns a copy of the items in their current shuffled order.
func (q *Queue[T]) Items() []T {
	return append([]T(nil), q.items...)
}
