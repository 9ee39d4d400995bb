package feedback

import "testing"

func TestAverageRating(t *testing.T) {
	if got := AverageRating(nil); got != 0 {
		t.Errorf("AverageRating(nil) = %v, want 0", got)
	}

	list := []Feedback{{Rating: 5}, {Rating: 4}, {Rating: 3}}
	if got := AverageRating(list); got != 4 {
		t.Errorf("AverageRating() = %v, want 4", got)
	}
}

func TestValidate(t *testing.T) {
	valid := Feedback{
		Rating: 5, Comfort: 4, Effectiveness: 5, Mood: MoodGood,
		EnergyLevel: 7, SleepQuality: 8, Digestion: 6,
	}
	if errs := valid.Validate(); len(errs) != 0 {
		t.Fatalf("Validate() = %v, want no errors", errs)
	}

	invalid := valid
	invalid.Rating = 6
	invalid.Digestion = 0
	invalid.Mood = "Ecstatic"
	if errs := invalid.Validate(); len(errs) != 3 {
		t.Errorf("Validate() returned %d errors, want 3: %v", len(errs), errs)
	}
}
