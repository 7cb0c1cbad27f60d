// Package reorder holds the drag-and-drop ordering state used by
// ordered-sequence questions.
package reorder

import "math/rand/v2"

// ChangeFunc receives the full order after every change. The slice is a
// copy owned by the receiver.
type ChangeFunc func(questionID string, order []string)

// List is an ordered set of labels that can be rearranged with drag
// gestures. It is not safe for concurrent use.
type List struct {
	questionID string
	pristine   []string
	items      []string

	dragging bool
	source   int

	onChange ChangeFunc
	rng      *rand.Rand
}

type Option func(*List)

// WithInitial starts the list from a previously reported order instead of
// the pristine items.
func WithInitial(order []string) Option {
	return func(l *List) {
		if len(order) > 0 {
			l.items = clone(order)
		}
	}
}

// WithRand makes Shuffle draw from r.
func WithRand(r *rand.Rand) Option {
	return func(l *List) { l.rng = r }
}

func New(questionID string, items []string, onChange ChangeFunc, opts ...Option) *List {
	l := &List{
		questionID: questionID,
		pristine:   clone(items),
		items:      clone(items),
		onChange:   onChange,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *List) QuestionID() string {
	return l.questionID
}

// Items returns a copy of the current order.
func (l *List) Items() []string {
	return clone(l.items)
}

func (l *List) Len() int {
	return len(l.items)
}

// Dragging reports the source index of the drag in progress, if any.
func (l *List) Dragging() (int, bool) {
	if !l.dragging {
		return -1, false
	}
	return l.source, true
}

// BeginDrag records sourceIndex as the element being moved. Indexes outside
// the list are ignored.
func (l *List) BeginDrag(sourceIndex int) {
	if sourceIndex < 0 || sourceIndex >= len(l.items) {
		return
	}
	l.dragging = true
	l.source = sourceIndex
}

// Drop moves the dragged element onto targetIndex and reports whether the
// order was rewritten. Dropping without a drag, onto the source itself, or
// outside the list leaves the order alone. The list is idle afterwards.
func (l *List) Drop(targetIndex int) bool {
	if !l.dragging {
		return false
	}
	source := l.source
	l.EndDrag()

	if source == targetIndex || targetIndex < 0 || targetIndex >= len(l.items) {
		return false
	}

	item := l.items[source]
	next := make([]string, 0, len(l.items))
	next = append(next, l.items[:source]...)
	next = append(next, l.items[source+1:]...)

	// Removing the source shifts everything after it down by one.
	insertIndex := targetIndex
	if source < targetIndex {
		insertIndex = targetIndex - 1
	}

	next = append(next, "")
	copy(next[insertIndex+1:], next[insertIndex:])
	next[insertIndex] = item

	l.items = next
	l.notify()
	return true
}

// EndDrag clears any drag in progress. Safe to call at any time.
func (l *List) EndDrag() {
	l.dragging = false
	l.source = -1
}

// Move performs a complete drag from one index to another.
func (l *List) Move(from, to int) bool {
	l.BeginDrag(from)
	moved := l.Drop(to)
	l.EndDrag()
	return moved
}

// Shuffle replaces the order with a uniform random permutation of the
// pristine items and reports it.
func (l *List) Shuffle() []string {
	shuffled := clone(l.pristine)
	swap := func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] }
	if l.rng != nil {
		l.rng.Shuffle(len(shuffled), swap)
	} else {
		rand.Shuffle(len(shuffled), swap)
	}

	l.EndDrag()
	l.items = shuffled
	l.notify()
	return clone(shuffled)
}

func (l *List) notify() {
	if l.onChange == nil {
		return
	}
	l.onChange(l.questionID, clone(l.items))
}

func clone(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}
