package domain

import (
	"errors"
	"time"
)

// Upstream field names carrying the two time series.
const (
	FieldConfidence = "Confidence"
	FieldPrice      = "Price"
)

var ErrEmptySeries = errors.New("time series has no entries")

// Observation is one keyed value of a TimeSeries.
type Observation struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// TimeSeries keeps observations in the order the upstream delivered them.
// Keys are never re-sorted; the last element is the newest by contract.
type TimeSeries []Observation

// Latest returns the value of the last observation in delivery order.
func (ts TimeSeries) Latest() (float64, error) {
	if len(ts) == 0 {
		return 0, ErrEmptySeries
	}
	return ts[len(ts)-1].Value, nil
}

// SentimentSnapshot is the subset of one upstream payload the bot cares about.
type SentimentSnapshot struct {
	Confidence TimeSeries
	Price      TimeSeries
}

// DisplayStatus is what gets pushed to the chat surfaces each cycle.
type DisplayStatus struct {
	Confidence      float64   `json:"-"`
	PriceUSD        float64   `json:"-"`
	ConfidenceIndex string    `json:"confidence_index"`
	Price           string    `json:"price"`
	Nickname        string    `json:"nickname"`
	ActivityText    string    `json:"activity_text"`
	UpdatedAt       time.Time `json:"updated_at"`
}
