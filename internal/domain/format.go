package domain

import (
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FormatConfidence renders a [0,1] confidence as a whole percentage.
// Halves round away from zero. Out-of-range input is formatted as-is.
func FormatConfidence(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).Mul(hundred).StringFixed(0)
}

// FormatPrice renders a price with exactly two decimals and no separators.
func FormatPrice(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

func NewDisplayStatus(confidence, price float64) DisplayStatus {
	ci := FormatConfidence(confidence)
	p := FormatPrice(price)
	return DisplayStatus{
		Confidence:      confidence,
		PriceUSD:        price,
		ConfidenceIndex: ci,
		Price:           p,
		Nickname:        "Bitcoin CI: " + ci,
		ActivityText:    "Bitcoin $" + p,
	}
}

// DisplayStatusFor extracts the newest values of a snapshot and formats them.
// Errors name the series that failed and wrap ErrEmptySeries.
func DisplayStatusFor(s *SentimentSnapshot) (DisplayStatus, error) {
	confidence, err := s.Confidence.Latest()
	if err != nil {
		return DisplayStatus{}, fmt.Errorf("%s: %w", FieldConfidence, err)
	}
	price, err := s.Price.Latest()
	if err != nil {
		return DisplayStatus{}, fmt.Errorf("%s: %w", FieldPrice, err)
	}
	return NewDisplayStatus(confidence, price), nil
}
