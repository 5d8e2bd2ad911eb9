// Package events allows for the registering and receiving of events.
package events

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Set of event types broadcast to connected clients.
const (
	TypeInitialData        = "initial_data"
	TypeMetricsUpdate      = "metrics_update"
	TypeMiningProgress     = "mining_progress"
	TypeBlockMined         = "block_mined"
	TypeDiscoveryMade      = "discovery_made"
	TypeValidationRecorded = "validation_recorded"
	TypeIntegrityUpdate    = "integrity_update"
	TypeSecurityAlert      = "security_alert"
)

// Event represents a single message broadcast to all connected clients.
// The Type tag tells the client how to interpret the Data payload.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Events maintains a mapping of unique id and channels so goroutines
// can register and receive events.
type Events struct {
	m  map[string]chan []byte
	mu sync.RWMutex
}

// New constructs an events for registering and receiving events.
func New() *Events {
	return &Events{
		m: make(map[string]chan []byte),
	}
}

// Shutdown closes and removes all channels that were provided by
// the call to Acquire.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, ch := range evt.m {
		delete(evt.m, id)
		close(ch)
	}
}

// Acquire takes a unique id and returns a channel that can be used
// to receive events.
func (evt *Events) Acquire(id string) chan []byte {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.m[id]
	if exists {
		return ch
	}

	// Since a message will be dropped if the websocket receiver is
	// not ready to receive, this arbitrary buffer should give the receiver
	// enough time to not lose a message. Websocket send could take long.
	const messageBuffer = 100

	evt.m[id] = make(chan []byte, messageBuffer)
	return evt.m[id]
}

// Release closes and removes the channel that was provided by
// the call to Acquire.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.m[id]
	if !exists {
		return fmt.Errorf("id %q does not exist", id)
	}

	delete(evt.m, id)
	close(ch)
	return nil
}

// Clients returns the number of channels currently registered.
func (evt *Events) Clients() int {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	return len(evt.m)
}

// Send marshals the event once and signals it to every registered channel.
// Send will not block waiting for a receiver on any given channel. Delivery
// is best effort, a slow client loses messages rather than stalling the rest.
func (evt *Events) Send(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	evt.mu.RLock()
	defer evt.mu.RUnlock()

	for _, ch := range evt.m {
		select {
		case ch <- data:
		default:
		}
	}
}
