package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	d, err := time.Parse(DateFormat, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		day  string
		want string
	}{
		{"2025-08-03", "2025-08-03"}, // a Sunday maps to itself
		{"2025-08-04", "2025-08-03"}, // Monday
		{"2025-08-09", "2025-08-03"}, // Saturday
		{"2025-08-10", "2025-08-10"}, // next Sunday
	}

	for _, tt := range tests {
		t.Run(tt.day, func(t *testing.T) {
			assert.Equal(t, tt.want, DateString(WeekStart(date(tt.day))))
		})
	}
}

func TestPreviousWeek(t *testing.T) {
	week := PreviousWeek(date("2025-08-12")) // a Tuesday; current week starts 2025-08-10
	require.Len(t, week, 7)
	assert.Equal(t, "2025-08-03", DateString(week[0]))
	assert.Equal(t, "2025-08-09", DateString(week[6]))
}
