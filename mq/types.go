package mq

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EventKind names what happened on chain.
type EventKind string

const (
	CollectionCreated EventKind = "collection_created"
	AssetCreated      EventKind = "asset_created"
	AssetTransferred  EventKind = "asset_transferred"
)

// Event is the message published for every indexed collection or asset change.
type Event struct {
	ID         string    `json:"id"`
	Kind       EventKind `json:"kind"`
	Slot       int64     `json:"slot"`
	Signature  string    `json:"signature"`
	Collection string    `json:"collection"`
	Asset      string    `json:"asset,omitempty"`
	Owner      string    `json:"owner,omitempty"`
	Name       string    `json:"name,omitempty"`
	Uri        string    `json:"uri,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewEvent stamps a fresh message id.
func NewEvent(kind EventKind, slot int64, signature, collection string) Event {
	return Event{
		ID:         uuid.New().String(),
		Kind:       kind,
		Slot:       slot,
		Signature:  signature,
		Collection: collection,
		Timestamp:  time.Now().UTC(),
	}
}

// RoutingKey keeps every event of one collection on the same partition.
func (e Event) RoutingKey() string {
	if e.Collection != "" {
		return e.Collection
	}
	return e.ID
}

// StartPosition is a parsed subscription type.
type StartPosition struct {
	Last bool
	// Slot is the first slot delivered; -1 delivers everything.
	Slot int64
}

// ParseStartPosition understands "first", "last" and "slot:<n>".
// "slot:<n>" replays from the beginning of the stream and drops events
// older than n on the client side.
func ParseStartPosition(subscription string) (StartPosition, error) {
	switch {
	case subscription == "first":
		return StartPosition{Slot: -1}, nil
	case subscription == "last":
		return StartPosition{Last: true, Slot: -1}, nil
	case strings.HasPrefix(subscription, "slot:"):
		raw := strings.TrimPrefix(subscription, "slot:")
		slot, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || slot < 0 {
			return StartPosition{}, fmt.Errorf("invalid slot value %q", raw)
		}
		return StartPosition{Slot: slot}, nil
	default:
		return StartPosition{}, errors.New("unknown subscription type; expected 'first', 'last' or 'slot:<number>'")
	}
}

// Accept reports whether an event at slot passes the start filter.
func (p StartPosition) Accept(slot int64) bool {
	return p.Slot < 0 || slot >= p.Slot
}
