package connectivity

import (
	"sort"
	"sync"
)

// Callback receives connectivity events. It may be called from any goroutine.
type Callback func(Event)

// Unsubscribe releases a subscription. Calling it more than once is harmless.
type Unsubscribe func()

// Notifier is a connectivity-change notification source.
type Notifier interface {
	// Subscribe registers cb and returns the handle that releases it.
	Subscribe(cb Callback) (Unsubscribe, error)
}

// ManualNotifier is an in-process Notifier whose events are pushed with Fire.
// It backs the prober's fan-out and stands in for a platform source when
// probing is disabled.
type ManualNotifier struct {
	mu   sync.Mutex
	next int
	subs map[int]Callback
	err  error
}

// NewManualNotifier creates a notifier with no subscribers.
func NewManualNotifier() *ManualNotifier {
	return &ManualNotifier{subs: make(map[int]Callback)}
}

func (n *ManualNotifier) Subscribe(cb Callback) (Unsubscribe, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.err != nil {
		return nil, n.err
	}

	id := n.next
	n.next++
	n.subs[id] = cb

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
		})
	}, nil
}

// Fire delivers ev to every current subscriber, in subscription order.
// Callbacks run on the caller's goroutine, outside the notifier's lock.
func (n *ManualNotifier) Fire(ev Event) {
	n.mu.Lock()
	ids := make([]int, 0, len(n.subs))
	for id := range n.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	cbs := make([]Callback, 0, len(ids))
	for _, id := range ids {
		cbs = append(cbs, n.subs[id])
	}
	n.mu.Unlock()

	for _, cb := range cbs {
		cb(ev)
	}
}

// Fail makes subsequent Subscribe calls return err. A nil err clears it.
func (n *ManualNotifier) Fail(err error) {
	n.mu.Lock()
	n.err = err
	n.mu.Unlock()
}

// Subscribers returns the number of active subscriptions.
func (n *ManualNotifier) Subscribers() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}
