package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestLatestReturnsLastInDeliveryOrder(t *testing.T) {
	ts := TimeSeries{
		{Key: "1700000000", Value: 0.1},
		{Key: "1600000000", Value: 0.2},
		{Key: "zzz", Value: 0.3},
		{Key: "1500000000", Value: 0.42},
	}
	got, err := ts.Latest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0.42 {
		t.Fatalf("expected 0.42, got %v", got)
	}
}

func TestLatestSingleEntry(t *testing.T) {
	got, err := TimeSeries{{Key: "k", Value: 7}}.Latest()
	if err != nil || got != 7 {
		t.Fatalf("expected 7, got %v (err=%v)", got, err)
	}
}

func TestLatestEmptySeries(t *testing.T) {
	_, err := TimeSeries{}.Latest()
	if !errors.Is(err, ErrEmptySeries) {
		t.Fatalf("expected ErrEmptySeries, got %v", err)
	}
	var nilSeries TimeSeries
	if _, err := nilSeries.Latest(); !errors.Is(err, ErrEmptySeries) {
		t.Fatalf("expected ErrEmptySeries for nil series, got %v", err)
	}
}

func TestDisplayStatusFor(t *testing.T) {
	s := &SentimentSnapshot{
		Confidence: TimeSeries{{Key: "a", Value: 0.5}, {Key: "b", Value: 0.8734}},
		Price:      TimeSeries{{Key: "a", Value: 1}, {Key: "b", Value: 61234.567}},
	}
	status, err := DisplayStatusFor(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Nickname != "Bitcoin CI: 87" {
		t.Fatalf("unexpected nickname: %q", status.Nickname)
	}
	if status.ActivityText != "Bitcoin $61234.57" {
		t.Fatalf("unexpected activity: %q", status.ActivityText)
	}
}

func TestDisplayStatusForEmptyPrice(t *testing.T) {
	s := &SentimentSnapshot{Confidence: TimeSeries{{Key: "a", Value: 0.5}}}
	_, err := DisplayStatusFor(s)
	if !errors.Is(err, ErrEmptySeries) {
		t.Fatalf("expected ErrEmptySeries, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), FieldPrice+":") {
		t.Fatalf("expected error to name the price series, got %v", err)
	}
}
