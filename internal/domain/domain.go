package domain

import (
	"context"
	"fmt"
	"time"
)

// Wire formats for the date and time strings stored on sessions, appointments
// and milestones.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ParseDate validates a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// ParseClock validates an HH:mm string.
func ParseClock(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: expected HH:mm", s)
	}
	return t, nil
}

// Today formats now as a YYYY-MM-DD date.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

type Role string

const (
	RoleAdmin        Role = "admin"
	RolePractitioner Role = "practitioner"
	RolePatient      Role = "patient"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RolePractitioner, RolePatient:
		return true
	}
	return false
}

type User struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"passwordHash"`
	Name           string     `json:"name"`
	Role           Role       `json:"role"`
	PatientID      string     `json:"patientId,omitempty"`
	PractitionerID string     `json:"practitionerId,omitempty"`
	Active         bool       `json:"active"`
	LastLoginAt    *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`

	FailedLoginCount int        `json:"failedLoginCount"`
	LockedUntil      *time.Time `json:"lockedUntil,omitempty"`
}

// IsLocked returns true if the account is temporarily locked due to failed logins.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// Account lockout policy.
const (
	MaxFailedLogins = 5
	LockDuration    = 15 * time.Minute
)

// RecordLoginAttempt updates the lockout counters for one attempt at time at.
func (u *User) RecordLoginAttempt(success bool, at time.Time) {
	if success {
		u.FailedLoginCount = 0
		u.LockedUntil = nil
		u.LastLoginAt = &at
		return
	}
	u.FailedLoginCount++
	if u.FailedLoginCount >= MaxFailedLogins {
		until := at.Add(LockDuration)
		u.LockedUntil = &until
		u.FailedLoginCount = 0
	}
}

// CurrentUser is the single signed-in user object kept under its own key.
type CurrentUser struct {
	UserID         string    `json:"userId"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	PatientID      string    `json:"patientId,omitempty"`
	PractitionerID string    `json:"practitionerId,omitempty"`
	LoginAt        time.Time `json:"loginAt"`
}

type NotificationSettings struct {
	Email         bool `json:"email"`
	SMS           bool `json:"sms"`
	InApp         bool `json:"inApp"`
	ReminderHours int  `json:"reminderHours"`
}

type Preferences struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
	Timezone string `json:"timezone"`
}

type Settings struct {
	Notifications NotificationSettings `json:"notifications"`
	Preferences   Preferences          `json:"preferences"`
}

func DefaultSettings() Settings {
	return Settings{
		Notifications: NotificationSettings{
			Email:         true,
			SMS:           false,
			InApp:         true,
			ReminderHours: 24,
		},
		Preferences: Preferences{
			Theme:    "light",
			Language: "en",
			Timezone: "Asia/Kolkata",
		},
	}
}

type AuditAction string

const (
	ActionCreate AuditAction = "create"
	ActionRead   AuditAction = "read"
	ActionUpdate AuditAction = "update"
	ActionDelete AuditAction = "delete"
	ActionLogin  AuditAction = "login"
	ActionLogout AuditAction = "logout"
)

type AuditLog struct {
	ID           string      `json:"id"`
	OccurredAt   time.Time   `json:"occurredAt"`
	UserID       string      `json:"userId"`
	UserRole     Role        `json:"role"`
	IPAddress    string      `json:"ip,omitempty"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resourceType"`
	ResourceID   string      `json:"resourceId,omitempty"`
	Changes      string      `json:"changes,omitempty"`
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"` // Always "Bearer"
}

type Claims struct {
	UserID         string `json:"sub"`
	Email          string `json:"email"`
	Role           Role   `json:"role"`
	PatientID      string `json:"patient_id,omitempty"`
	PractitionerID string `json:"practitioner_id,omitempty"`
}

type UserRepository interface {
	GetAll(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail matches case-insensitively. Returns ErrUserNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Create returns ErrEmailTaken when another user already has the email.
	Create(ctx context.Context, u *User) error

	RecordLoginAttempt(ctx context.Context, id string, success bool, at time.Time) error
	UpdatePassword(ctx context.Context, id, hash string) error
}

type SettingsRepository interface {
	// Get returns the stored settings merged onto DefaultSettings.
	Get(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
}

type CurrentUserRepository interface {
	// Get returns ErrNoCurrentUser when nobody is signed in.
	Get(ctx context.Context) (*CurrentUser, error)
	Set(ctx context.Context, u CurrentUser) error
	Clear(ctx context.Context) error
}

type AuditRepository interface {
	Append(ctx context.Context, entries ...AuditLog) error

	// Recent returns the newest entries first, at most limit of them.
	Recent(ctx context.Context, limit int) ([]AuditLog, error)
}
