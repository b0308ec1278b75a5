package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	appt := &Appointment{StartTime: base, EndTime: base.Add(30 * time.Minute)}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{name: "identical interval", start: base, end: base.Add(30 * time.Minute), want: true},
		{name: "partial overlap at tail", start: base.Add(15 * time.Minute), end: base.Add(45 * time.Minute), want: true},
		{name: "partial overlap at head", start: base.Add(-15 * time.Minute), end: base.Add(15 * time.Minute), want: true},
		{name: "containing interval", start: base.Add(-30 * time.Minute), end: base.Add(time.Hour), want: true},
		{name: "adjacent after", start: base.Add(30 * time.Minute), end: base.Add(time.Hour), want: false},
		{name: "adjacent before", start: base.Add(-30 * time.Minute), end: base, want: false},
		{name: "disjoint", start: base.Add(2 * time.Hour), end: base.Add(3 * time.Hour), want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, appt.Overlaps(tc.start, tc.end))
		})
	}
}
