package dto

// ForecastResult is the payload for GET /api/predict/:ticker. Predictions has
// exactly the configured horizon length, dates are derived from the last
// known bar so an unchanged series always yields the same dates.
type ForecastResult struct {
	Ticker          string    `json:"ticker"`
	PredictionDates []string  `json:"prediction_dates"`
	Predictions     []float64 `json:"predictions"`
}
