// Package notify moves notifications that need email or SMS delivery out of
// the API process and delivers them on the consuming side.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

type Recipient struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Message is the outbound wire format, one per notification.
type Message struct {
	NotificationID string    `json:"notificationId"`
	Type           string    `json:"type"`
	Priority       string    `json:"priority"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	PatientID      string    `json:"patientId,omitempty"`
	SessionID      string    `json:"sessionId,omitempty"`
	Recipient      Recipient `json:"recipient"`
	Channels       []string  `json:"channels"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (m Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

func Decode(data []byte) (Message, error) {
	var m Message
	err := json.Unmarshal(data, &m)
	return m, err
}

type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// LogPublisher writes messages to the log instead of a broker.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, msg Message) error {
	p.log.Info("outbound notification",
		zap.String("notification_id", msg.NotificationID),
		zap.String("type", msg.Type),
		zap.Strings("channels", msg.Channels),
		zap.String("patient_id", msg.PatientID),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
