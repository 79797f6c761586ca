package selection

import (
	"strings"
	"sync"
)

// Key is a named key press delivered to the detail view.
type Key string

const (
	KeyEscape     Key = "Escape"
	KeyArrowRight Key = "ArrowRight"
	KeyArrowLeft  Key = "ArrowLeft"
)

// ParseKey normalizes browser-style ("ArrowLeft") and terminal-style
// ("left") key names. Unknown names are returned unchanged.
func ParseKey(name string) Key {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "escape", "esc":
		return KeyEscape
	case "arrowright", "right":
		return KeyArrowRight
	case "arrowleft", "left":
		return KeyArrowLeft
	default:
		return Key(name)
	}
}

// KeyHandler consumes a key and reports whether it acted on it.
type KeyHandler func(Key) bool

// KeyBus is the shared input surface key presses are dispatched on.
// Handlers are called in subscription order.
type KeyBus struct {
	mu       sync.Mutex
	nextID   int
	order    []int
	handlers map[int]KeyHandler
}

// NewKeyBus creates an empty bus.
func NewKeyBus() *KeyBus {
	return &KeyBus{handlers: make(map[int]KeyHandler)}
}

// Subscribe installs handler and returns the function that removes it.
// Calling the returned function more than once is harmless.
func (b *KeyBus) Subscribe(handler KeyHandler) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = handler
	b.order = append(b.order, id)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *KeyBus) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, id)
	for i, existing := range b.order {
		if existing == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Dispatch delivers key to every installed handler and reports whether any
// of them acted on it. Handlers may unsubscribe while being called.
func (b *KeyBus) Dispatch(key Key) bool {
	b.mu.Lock()
	snapshot := make([]KeyHandler, 0, len(b.order))
	for _, id := range b.order {
		snapshot = append(snapshot, b.handlers[id])
	}
	b.mu.Unlock()

	handled := false
	for _, handler := range snapshot {
		if handler(key) {
			handled = true
		}
	}
	return handled
}

// Len returns the number of installed handlers.
func (b *KeyBus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers)
}
