package engine

import "sync"

// EventKind identifies the engine events UI subscribers react to.
type EventKind int

const (
	EventStrokeStarted EventKind = iota
	EventStrokeFinished
	EventLayersChanged
	EventSelectionChanged
	EventHistoryChanged
	EventViewChanged
	EventDocumentLoaded
)

func (k EventKind) String() string {
	switch k {
	case EventStrokeStarted:
		return "StrokeStarted"
	case EventStrokeFinished:
		return "StrokeFinished"
	case EventLayersChanged:
		return "LayersChanged"
	case EventSelectionChanged:
		return "SelectionChanged"
	case EventHistoryChanged:
		return "HistoryChanged"
	case EventViewChanged:
		return "ViewChanged"
	case EventDocumentLoaded:
		return "DocumentLoaded"
	default:
		return "Unknown"
	}
}

// Event is one engine notification. LayerID is set for layer-scoped
// events and zero otherwise.
type Event struct {
	Kind    EventKind
	LayerID int64
}

// eventBus fans engine events out to subscriber channels. Delivery is
// non-blocking: a subscriber that falls behind loses events rather
// than stalling the editing goroutine.
type eventBus struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

const eventBuffer = 64

func newEventBus() *eventBus {
	return &eventBus{subs: make(map[chan Event]struct{})}
}

func (b *eventBus) subscribe() <-chan Event {
	ch := make(chan Event, eventBuffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *eventBus) unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs {
		if sub == ch {
			delete(b.subs, sub)
			close(sub)
			return
		}
	}
}

func (b *eventBus) emit(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs {
		select {
		case sub <- ev:
		default:
		}
	}
}

func (b *eventBus) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs {
		close(sub)
	}
	b.subs = make(map[chan Event]struct{})
}
