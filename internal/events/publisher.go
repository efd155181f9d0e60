package events

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// SubjectActivity is the NATS subject content events are published on.
const SubjectActivity = "vireo.activity"

// ActivityEvent describes one content mutation.
type ActivityEvent struct {
	Entity     string    `json:"entity"`
	EntityID   uint      `json:"entityId"`
	EntityName string    `json:"entityName"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher emits content activity events. A nil NATS connection turns
// publishing into a no-op so the API runs without a broker.
type Publisher struct {
	conn   *nats.Conn
	logger zerolog.Logger
}

// NewPublisher constructs a publisher. conn may be nil.
func NewPublisher(conn *nats.Conn, logger zerolog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger.With().Str("component", "events").Logger(),
	}
}

// Publish emits the event. Failures are logged, never returned: event
// delivery is best-effort and must not fail the originating request.
func (p *Publisher) Publish(event ActivityEvent) {
	if p == nil || p.conn == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn().Err(err).Msg("failed to encode activity event")
		return
	}
	if err := p.conn.Publish(SubjectActivity, payload); err != nil {
		p.logger.Warn().Err(err).Str("subject", SubjectActivity).Msg("failed to publish activity event")
	}
}
