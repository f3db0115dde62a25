package utils

import "time"

const (
	// DateTimeLayout is the wire format for bar timestamps.
	DateTimeLayout = "2006-01-02 15:04:05"
	// DateLayout is the wire format for forecast dates.
	DateLayout = "2006-01-02"
)

// PeriodToUnixRange converts a period shorthand into a [from, to] unix range
// ending now. Returns (0, 0) for an unknown period.
func PeriodToUnixRange(period string, now time.Time) (int64, int64) {
	switch period {
	case "1d":
		return now.AddDate(0, 0, -1).Unix(), now.Unix()
	case "5d":
		return now.AddDate(0, 0, -5).Unix(), now.Unix()
	case "1w":
		return now.AddDate(0, 0, -7).Unix(), now.Unix()
	case "1m", "1mo":
		return now.AddDate(0, -1, 0).Unix(), now.Unix()
	case "3m", "3mo":
		return now.AddDate(0, -3, 0).Unix(), now.Unix()
	case "6m", "6mo":
		return now.AddDate(0, -6, 0).Unix(), now.Unix()
	case "1y":
		return now.AddDate(-1, 0, 0).Unix(), now.Unix()
	case "2y":
		return now.AddDate(-2, 0, 0).Unix(), now.Unix()
	case "5y":
		return now.AddDate(-5, 0, 0).Unix(), now.Unix()
	case "max":
		return now.AddDate(-30, 0, 0).Unix(), now.Unix()
	default:
		return 0, 0
	}
}

// ValidPeriods lists the accepted period shorthands.
func ValidPeriods() []string {
	return []string{"1d", "5d", "1w", "1m", "1mo", "3m", "3mo", "6m", "6mo", "1y", "2y", "5y", "max"}
}

// ValidIntervals lists the accepted bar intervals.
func ValidIntervals() []string {
	return []string{"1m", "5m", "15m", "30m", "1h", "1d", "1wk", "1mo"}
}
