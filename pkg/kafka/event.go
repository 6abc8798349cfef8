package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is the envelope written to every topic.
type Event struct {
	ID            string          `json:"event_id"`
	Type          string          `json:"event_type"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	Version       int             `json:"version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Source        string          `json:"source"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent wraps data in an envelope with a fresh ID and UTC timestamp.
func NewEvent(eventType, aggregateType, aggregateID, source string, data any) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return &Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		Version:       1,
		OccurredAt:    time.Now().UTC(),
		Source:        source,
		Data:          raw,
	}, nil
}

// Decode unmarshals the payload into target.
func (e *Event) Decode(target any) error {
	return json.Unmarshal(e.Data, target)
}
