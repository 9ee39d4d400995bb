package notification

import "time"

type Type string

const (
	TypeReminder Type = "Reminder"
	TypePreCare  Type = "Pre-Care"
	TypePostCare Type = "Post-Care"
	TypeProgress Type = "Progress"
	TypeAlert    Type = "Alert"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeReminder, TypePreCare, TypePostCare, TypeProgress, TypeAlert:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Channel names used on the outbound wire.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

type Channels struct {
	InApp bool `json:"inApp"`
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
}

// Notifications are mutated only by marking read and are never deleted.
type Notification struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
	PatientID string    `json:"patientId,omitempty"`
	SessionID string    `json:"sessionId,omitempty"`
	Channels  Channels  `json:"channels"`
	Priority  Priority  `json:"priority"`
}

type CreateNotificationCommand struct {
	Type      Type     `json:"type"`
	Title     string   `json:"title"`
	Message   string   `json:"message"`
	PatientID string   `json:"patientId"`
	SessionID string   `json:"sessionId"`
	Channels  Channels `json:"channels"`
	Priority  Priority `json:"priority"`
}

func Unread(list []Notification) []Notification {
	out := make([]Notification, 0, len(list))
	for _, n := range list {
		if !n.Read {
			out = append(out, n)
		}
	}
	return out
}
