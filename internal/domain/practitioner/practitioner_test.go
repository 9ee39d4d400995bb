package practitioner

import (
	"slices"
	"testing"
)

func TestHourlySlots(t *testing.T) {
	tests := []struct {
		name string
		day  WorkingDay
		want []string
	}{
		{
			name: "full day",
			day:  WorkingDay{Start: "09:00", End: "17:00", Available: true},
			want: []string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00"},
		},
		{
			name: "half hour end keeps last slot",
			day:  WorkingDay{Start: "10:00", End: "12:30", Available: true},
			want: []string{"10:00", "11:00", "12:00"},
		},
		{
			name: "unavailable",
			day:  WorkingDay{Start: "09:00", End: "17:00", Available: false},
			want: nil,
		},
		{
			name: "inverted window",
			day:  WorkingDay{Start: "17:00", End: "09:00", Available: true},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.day.HourlySlots()
			if !slices.Equal(got, tt.want) {
				t.Errorf("HourlySlots() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWorksAt(t *testing.T) {
	p := Practitioner{
		WorkingHours: WorkingHours{
			"monday": {Start: "09:00", End: "17:00", Available: true},
			"sunday": {Start: "09:00", End: "13:00", Available: false},
		},
	}

	tests := []struct {
		date, clock string
		want        bool
	}{
		{"2024-10-07", "09:00", true},  // Monday
		{"2024-10-07", "16:59", true},  // Monday
		{"2024-10-07", "17:00", false}, // end is exclusive
		{"2024-10-07", "08:00", false},
		{"2024-10-06", "10:00", false}, // Sunday, unavailable
		{"2024-10-08", "10:00", false}, // Tuesday, no entry
		{"not-a-date", "10:00", false},
	}

	for _, tt := range tests {
		if got := p.WorksAt(tt.date, tt.clock); got != tt.want {
			t.Errorf("WorksAt(%s, %s) = %v, want %v", tt.date, tt.clock, got, tt.want)
		}
	}
}
