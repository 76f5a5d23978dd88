package notify

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event describes a state change on one entity. ID is assigned at publish
// time.
type Event struct {
	ID       string    `json:"id"`
	Entity   string    `json:"entity"`
	Action   string    `json:"action"`
	EntityID int32     `json:"entity_id"`
	At       time.Time `json:"at"`
}

// Notifier fans out events to in-process subscribers, synchronously and in
// registration order. Subscribers must not block.
type Notifier struct {
	mu     sync.Mutex
	subs   map[int]func(Event)
	nextID int
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]func(Event))}
}

// Subscribe registers fn for every published event. The returned cancel func
// removes the subscription.
func (n *Notifier) Subscribe(fn func(Event)) (cancel func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.subs[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

// Publish stamps the event with a fresh id and delivers it to all current
// subscribers.
func (n *Notifier) Publish(event Event) Event {
	event.ID = uuid.NewString()

	n.mu.Lock()
	ids := make([]int, 0, len(n.subs))
	for id := range n.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	subs := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		subs = append(subs, n.subs[id])
	}
	n.mu.Unlock()

	for _, fn := range subs {
		fn(event)
	}
	return event
}
