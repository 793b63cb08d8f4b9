package store

// EventKind identifies what changed in the store.
type EventKind string

const (
	StationCreated EventKind = "station:created"
	StationUpdated EventKind = "station:updated"
	StationRemoved EventKind = "station:removed"
	LineCreated    EventKind = "line:created"
	LineUpdated    EventKind = "line:updated"
	LineRemoved    EventKind = "line:removed"
	StoreCleared   EventKind = "store:cleared"
	SurfaceSwapped EventKind = "surface:swapped"
)

// Event is a change notification. The presentation layer subscribes and
// maintains its own id to render-handle mapping; the store never holds
// render state.
type Event struct {
	Kind EventKind
	ID   uint // entity id; 0 for store-wide events
}

// Listener receives change notifications. Listeners are invoked
// synchronously after the mutation commits, outside the store lock.
type Listener func(Event)

// Subscribe registers a listener for all store changes.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *Store) notify(events ...Event) {
	s.mu.RLock()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, l := range listeners {
		for _, e := range events {
			l(e)
		}
	}
}
