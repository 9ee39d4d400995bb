package feedback

import (
	"fmt"
	"time"
)

type Mood string

const (
	MoodExcellent Mood = "Excellent"
	MoodGood      Mood = "Good"
	MoodNeutral   Mood = "Neutral"
	MoodPoor      Mood = "Poor"
	MoodVeryPoor  Mood = "Very Poor"
)

func (m Mood) IsValid() bool {
	switch m {
	case MoodExcellent, MoodGood, MoodNeutral, MoodPoor, MoodVeryPoor:
		return true
	}
	return false
}

type Symptoms struct {
	Before []string `json:"before"`
	After  []string `json:"after"`
}

type Feedback struct {
	ID              string    `json:"id"`
	SessionID       string    `json:"sessionId"`
	PatientID       string    `json:"patientId"`
	Rating          int       `json:"rating"`        // 1-5
	Comfort         int       `json:"comfort"`       // 1-5
	Effectiveness   int       `json:"effectiveness"` // 1-5
	Mood            Mood      `json:"mood"`
	EnergyLevel     int       `json:"energyLevel"`  // 1-10
	SleepQuality    int       `json:"sleepQuality"` // 1-10
	Digestion       int       `json:"digestion"`    // 1-10
	Symptoms        Symptoms  `json:"symptoms"`
	SideEffects     []string  `json:"sideEffects"`
	Comments        string    `json:"comments"`
	Recommendations []string  `json:"recommendations"`
	Timestamp       time.Time `json:"timestamp"`
}

// Validate returns one message per out-of-range score.
func (f *Feedback) Validate() []string {
	var errs []string
	inRange := func(name string, v, lo, hi int) {
		if v < lo || v > hi {
			errs = append(errs, fmt.Sprintf("%s must be between %d and %d", name, lo, hi))
		}
	}
	inRange("rating", f.Rating, 1, 5)
	inRange("comfort", f.Comfort, 1, 5)
	inRange("effectiveness", f.Effectiveness, 1, 5)
	inRange("energyLevel", f.EnergyLevel, 1, 10)
	inRange("sleepQuality", f.SleepQuality, 1, 10)
	inRange("digestion", f.Digestion, 1, 10)
	if !f.Mood.IsValid() {
		errs = append(errs, ErrInvalidMood.Error())
	}
	return errs
}

func (f *Feedback) Apply(cmd *UpdateFeedbackCommand) {
	if cmd.Rating != nil {
		f.Rating = *cmd.Rating
	}
	if cmd.Comfort != nil {
		f.Comfort = *cmd.Comfort
	}
	if cmd.Effectiveness != nil {
		f.Effectiveness = *cmd.Effectiveness
	}
	if cmd.Mood != nil {
		f.Mood = *cmd.Mood
	}
	if cmd.EnergyLevel != nil {
		f.EnergyLevel = *cmd.EnergyLevel
	}
	if cmd.SleepQuality != nil {
		f.SleepQuality = *cmd.SleepQuality
	}
	if cmd.Digestion != nil {
		f.Digestion = *cmd.Digestion
	}
	if cmd.Symptoms != nil {
		f.Symptoms = *cmd.Symptoms
	}
	if cmd.SideEffects != nil {
		f.SideEffects = *cmd.SideEffects
	}
	if cmd.Comments != nil {
		f.Comments = *cmd.Comments
	}
	if cmd.Recommendations != nil {
		f.Recommendations = *cmd.Recommendations
	}
}

type SubmitFeedbackCommand struct {
	SessionID       string   `json:"sessionId"`
	PatientID       string   `json:"patientId"`
	Rating          int      `json:"rating"`
	Comfort         int      `json:"comfort"`
	Effectiveness   int      `json:"effectiveness"`
	Mood            Mood     `json:"mood"`
	EnergyLevel     int      `json:"energyLevel"`
	SleepQuality    int      `json:"sleepQuality"`
	Digestion       int      `json:"digestion"`
	Symptoms        Symptoms `json:"symptoms"`
	SideEffects     []string `json:"sideEffects"`
	Comments        string   `json:"comments"`
	Recommendations []string `json:"recommendations"`
}

type UpdateFeedbackCommand struct {
	Rating          *int      `json:"rating"`
	Comfort         *int      `json:"comfort"`
	Effectiveness   *int      `json:"effectiveness"`
	Mood            *Mood     `json:"mood"`
	EnergyLevel     *int      `json:"energyLevel"`
	SleepQuality    *int      `json:"sleepQuality"`
	Digestion       *int      `json:"digestion"`
	Symptoms        *Symptoms `json:"symptoms"`
	SideEffects     *[]string `json:"sideEffects"`
	Comments        *string   `json:"comments"`
	Recommendations *[]string `json:"recommendations"`
}

// AverageRating is the mean rating of list, 0 when empty.
func AverageRating(list []Feedback) float64 {
	if len(list) == 0 {
		return 0
	}
	sum := 0
	for _, f := range list {
		sum += f.Rating
	}
	return float64(sum) / float64(len(list))
}
