package storage

import "sync"

// EventKind identifies which part of the store changed
type EventKind int

const (
	EventStatsUpdated EventKind = iota + 1
	EventMessagesUpdated
	EventChallengeUpdated
	EventCredentialUpdated
	EventSettingsUpdated
	// EventExternalChange means another process modified the store file.
	EventExternalChange
)

func (k EventKind) String() string {
	switch k {
	case EventStatsUpdated:
		return "stats-updated"
	case EventMessagesUpdated:
		return "messages-updated"
	case EventChallengeUpdated:
		return "challenge-updated"
	case EventCredentialUpdated:
		return "credential-updated"
	case EventSettingsUpdated:
		return "settings-updated"
	case EventExternalChange:
		return "external-change"
	default:
		return "unknown"
	}
}

// Event is published after a successful write
type Event struct {
	Kind EventKind `json:"-"`
	Name string    `json:"type"`
}

func newEvent(kind EventKind) Event {
	return Event{Kind: kind, Name: kind.String()}
}

const subscriberBuffer = 16

// hub fans events out to subscribers without ever blocking the publisher.
// A subscriber that falls behind misses events; each event only signals
// that the store should be re-read, so the next one it receives is enough.
type hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
}

func newHub() *hub {
	return &hub{subs: make(map[int]chan Event)}
}

func (h *hub) subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan Event, subscriberBuffer)
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
}

func (h *hub) publish(kinds ...EventKind) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, kind := range kinds {
		ev := newEvent(kind)
		for _, ch := range h.subs {
			select {
			case ch <- ev:
			default:
			}
		}
	}
}
