package gateway

import "sync"

// Notifier is a small observer registry for the unauthorized broadcast. The
// Gateway owns it and emits; listeners subscribe without the Gateway ever
// learning who they are, which keeps the dependency direction one-way.
type Notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]func()
}

// NewNotifier creates an empty registry.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]func())}
}

// Subscribe registers fn and returns a cancel function. Cancel is idempotent.
func (n *Notifier) Subscribe(fn func()) (cancel func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.next
	n.next++
	n.subs[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

// Emit invokes every subscriber once, synchronously. Callbacks run outside
// the registry lock so a subscriber may unsubscribe from within its handler.
func (n *Notifier) Emit() {
	n.mu.Lock()
	fns := make([]func(), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
