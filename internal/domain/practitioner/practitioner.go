package practitioner

import (
	"strings"
	"time"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain"
)

// UnknownName is shown in read models for a dangling practitionerId.
const UnknownName = "Unknown Practitioner"

// WorkingDay is one weekday's window. Times are HH:mm; the window is [Start, End).
type WorkingDay struct {
	Start     string `json:"start" yaml:"start"`
	End       string `json:"end" yaml:"end"`
	Available bool   `json:"available" yaml:"available"`
}

func (d WorkingDay) Validate() error {
	if !d.Available {
		return nil
	}
	start, err := domain.ParseClock(d.Start)
	if err != nil {
		return ErrInvalidWorkingHours
	}
	end, err := domain.ParseClock(d.End)
	if err != nil || !start.Before(end) {
		return ErrInvalidWorkingHours
	}
	return nil
}

// Covers reports whether a session starting at clock falls inside the window.
func (d WorkingDay) Covers(clock string) bool {
	if !d.Available {
		return false
	}
	t, err := domain.ParseClock(clock)
	if err != nil {
		return false
	}
	start, err1 := domain.ParseClock(d.Start)
	end, err2 := domain.ParseClock(d.End)
	if err1 != nil || err2 != nil {
		return false
	}
	return !t.Before(start) && t.Before(end)
}

// HourlySlots lists one HH:mm start per hour in [Start, End).
func (d WorkingDay) HourlySlots() []string {
	if d.Validate() != nil || !d.Available {
		return nil
	}
	start, _ := domain.ParseClock(d.Start)
	end, _ := domain.ParseClock(d.End)

	var slots []string
	for t := start; t.Before(end); t = t.Add(time.Hour) {
		slots = append(slots, t.Format(domain.TimeLayout))
	}
	return slots
}

// WorkingHours is keyed by lowercase English weekday name.
type WorkingHours map[string]WorkingDay

func WeekdayKey(w time.Weekday) string {
	return strings.ToLower(w.String())
}

// On returns the window for the weekday of date (YYYY-MM-DD).
func (h WorkingHours) On(date string) (WorkingDay, bool) {
	t, err := domain.ParseDate(date)
	if err != nil {
		return WorkingDay{}, false
	}
	day, ok := h[WeekdayKey(t.Weekday())]
	return day, ok
}

type Practitioner struct {
	ID              string       `json:"id" yaml:"id"`
	Name            string       `json:"name" yaml:"name"`
	Email           string       `json:"email" yaml:"email"`
	Phone           string       `json:"phone" yaml:"phone"`
	Specializations []string     `json:"specializations" yaml:"specializations"`
	Experience      int          `json:"experience" yaml:"experience"` // years
	Qualifications  []string     `json:"qualifications" yaml:"qualifications"`
	Rating          float64      `json:"rating" yaml:"rating"`
	WorkingHours    WorkingHours `json:"workingHours" yaml:"workingHours"`
}

// WorksAt reports whether the practitioner's schedule covers date at clock.
func (p *Practitioner) WorksAt(date, clock string) bool {
	day, ok := p.WorkingHours.On(date)
	return ok && day.Covers(clock)
}

func (p *Practitioner) Validate() error {
	for _, day := range p.WorkingHours {
		if err := day.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Practitioner) Apply(cmd *UpdatePractitionerCommand) error {
	next := *p
	if cmd.Name != nil {
		next.Name = *cmd.Name
	}
	if cmd.Email != nil {
		next.Email = *cmd.Email
	}
	if cmd.Phone != nil {
		next.Phone = *cmd.Phone
	}
	if cmd.Specializations != nil {
		next.Specializations = *cmd.Specializations
	}
	if cmd.Experience != nil {
		next.Experience = *cmd.Experience
	}
	if cmd.Qualifications != nil {
		next.Qualifications = *cmd.Qualifications
	}
	if cmd.Rating != nil {
		next.Rating = *cmd.Rating
	}
	if cmd.WorkingHours != nil {
		next.WorkingHours = cmd.WorkingHours
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*p = next
	return nil
}

type UpdatePractitionerCommand struct {
	Name            *string      `json:"name"`
	Email           *string      `json:"email"`
	Phone           *string      `json:"phone"`
	Specializations *[]string    `json:"specializations"`
	Experience      *int         `json:"experience"`
	Qualifications  *[]string    `json:"qualifications"`
	Rating          *float64     `json:"rating"`
	WorkingHours    WorkingHours `json:"workingHours"`
}
