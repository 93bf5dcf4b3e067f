package audit

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	id "rigcheck/pkg/domain"
)

// Payload is the JSON published to Kafka. Field names are the wire contract between the
// relay and the consumer.
type Payload struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Timestamp   string `json:"timestamp"`
	ActorID     string `json:"actor_id,omitempty"`
	ActorRole   string `json:"actor_role,omitempty"`
	Action      string `json:"action"`
	SubjectType string `json:"subject_type,omitempty"`
	SubjectID   string `json:"subject_id,omitempty"`
	ApparatusID string `json:"apparatus_id,omitempty"`
	StationID   string `json:"station_id,omitempty"`
	Reason      string `json:"reason,omitempty"`
	Detail      string `json:"detail,omitempty"`
	ClientIP    string `json:"client_ip,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

// NewPayload renders event under eventID.
func NewPayload(eventID uuid.UUID, event Event) Payload {
	p := Payload{
		ID:          eventID.String(),
		Category:    string(AuditEvent(event.Action).Category()),
		Timestamp:   event.Timestamp.UTC().Format(time.RFC3339Nano),
		ActorRole:   event.ActorRole,
		Action:      event.Action,
		SubjectType: event.SubjectType,
		SubjectID:   event.SubjectID,
		ApparatusID: event.ApparatusID,
		StationID:   event.StationID,
		Reason:      event.Reason,
		Detail:      event.Detail,
		ClientIP:    event.ClientIP,
		RequestID:   event.RequestID,
	}
	if !event.ActorID.IsNil() {
		p.ActorID = event.ActorID.String()
	}
	return p
}

// Event converts a decoded payload back into an event.
func (p Payload) Event() (uuid.UUID, Event, error) {
	eventID, err := uuid.Parse(p.ID)
	if err != nil {
		return uuid.Nil, Event{}, fmt.Errorf("parse event id: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, p.Timestamp)
	if err != nil {
		return uuid.Nil, Event{}, fmt.Errorf("parse timestamp: %w", err)
	}
	event := Event{
		Category:    EventCategory(p.Category),
		Timestamp:   ts,
		ActorRole:   p.ActorRole,
		Action:      p.Action,
		SubjectType: p.SubjectType,
		SubjectID:   p.SubjectID,
		ApparatusID: p.ApparatusID,
		StationID:   p.StationID,
		Reason:      p.Reason,
		Detail:      p.Detail,
		ClientIP:    p.ClientIP,
		RequestID:   p.RequestID,
	}
	if p.ActorID != "" {
		actorID, err := id.ParseUserID(p.ActorID)
		if err != nil {
			return uuid.Nil, Event{}, err
		}
		event.ActorID = actorID
	}
	return eventID, event, nil
}

// OutboxEntry is an unpublished outbox row.
type OutboxEntry struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
	CreatedAt     time.Time
}

