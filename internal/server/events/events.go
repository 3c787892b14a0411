// Package events publishes session lifecycle events to NATS. Publishing
// happens after commit and is best-effort.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/dmitrijs2005/skillswap/internal/logging"
)

const (
	SubjectSessionBooked    = "session.booked"
	SubjectSessionCompleted = "session.completed"
	SubjectSessionCancelled = "session.cancelled"
	SubjectReviewSubmitted  = "review.submitted"
	subjectOTPPrefix        = "session.otp."
)

// OTPSubject is where the code for a booking is delivered to the mentor.
func OTPSubject(mentorID string) string {
	return subjectOTPPrefix + mentorID
}

type SessionEvent struct {
	EventType  string    `json:"event_type"`
	SessionID  string    `json:"session_id"`
	MentorID   string    `json:"mentor_id"`
	LearnerID  string    `json:"learner_id"`
	Skill      string    `json:"skill"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

type ReviewEvent struct {
	EventType  string    `json:"event_type"`
	ReviewID   string    `json:"review_id"`
	SessionID  string    `json:"session_id"`
	MentorID   string    `json:"mentor_id"`
	Rating     int       `json:"rating"`
	OccurredAt time.Time `json:"occurred_at"`
}

type OTPEvent struct {
	EventType string `json:"event_type"`
	SessionID string `json:"session_id"`
	OTP       string `json:"otp"`
}

type Publisher interface {
	Publish(ctx context.Context, subject string, event any) error
	Close() error
}

// natsConn is the subset of *nats.Conn the publisher needs.
type natsConn interface {
	Publish(subj string, data []byte) error
	Drain() error
}

type NatsPublisher struct {
	conn   natsConn
	logger logging.Logger
}

var natsConnect = func(url string, opts ...nats.Option) (natsConn, error) {
	return nats.Connect(url, opts...)
}

func NewNatsPublisher(url string, logger logging.Logger) (*NatsPublisher, error) {
	nc, err := natsConnect(url,
		nats.Name("skillswap-server"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &NatsPublisher{conn: nc, logger: logger.With("module", "events")}, nil
}

func (p *NatsPublisher) Publish(ctx context.Context, subject string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", subject, err)
	}

	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	p.logger.Debug(ctx, "event published", "subject", subject)
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NatsPublisher) Close() error {
	return p.conn.Drain()
}

// Nop drops every event. Used when no NATS URL is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close() error                               { return nil }
