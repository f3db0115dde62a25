package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodToUnixRange(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		period   string
		wantFrom time.Time
	}{
		{"1d", now.AddDate(0, 0, -1)},
		{"1w", now.AddDate(0, 0, -7)},
		{"1mo", now.AddDate(0, -1, 0)},
		{"6mo", now.AddDate(0, -6, 0)},
		{"1y", now.AddDate(-1, 0, 0)},
		{"5y", now.AddDate(-5, 0, 0)},
		{"max", now.AddDate(-30, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			from, to := PeriodToUnixRange(tt.period, now)
			assert.Equal(t, tt.wantFrom.Unix(), from)
			assert.Equal(t, now.Unix(), to)
		})
	}
}

func TestPeriodToUnixRange_UnknownPeriod(t *testing.T) {
	from, to := PeriodToUnixRange("fortnight", time.Now())
	assert.Zero(t, from)
	assert.Zero(t, to)
}

func TestValidPeriodsCoverConversions(t *testing.T) {
	now := time.Now()
	for _, p := range ValidPeriods() {
		from, to := PeriodToUnixRange(p, now)
		assert.NotZero(t, from, "period %s must convert", p)
		assert.NotZero(t, to, "period %s must convert", p)
	}
}
