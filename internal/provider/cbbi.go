package provider

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"cbbi-status-bot/internal/domain"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrInvalidJSON  = errors.New("response body is not valid JSON")
	ErrMissingField = errors.New("response is missing a time series field")
	ErrInvalidValue = errors.New("latest series value is not a finite number")
)

// CBBIProvider fetches the Bitcoin bull run index payload and keeps only the
// confidence and price series.
type CBBIProvider struct {
	client *resty.Client
	url    string
	tracer trace.Tracer
}

func NewCBBIProvider(tracer trace.Tracer, url string, timeout time.Duration) *CBBIProvider {
	client := resty.New().
		SetTimeout(timeout).
		SetHeaders(map[string]string{
			"Accept":          "application/json",
			"Accept-Encoding": "br",
			"User-Agent":      "cbbi-status-bot/1.0",
		}).
		OnAfterResponse(DecompressMiddleware)

	return &CBBIProvider{
		client: client,
		url:    url,
		tracer: tracer,
	}
}

// FetchSnapshot performs one GET against the configured URL. Transport errors,
// non-2xx responses, unparsable bodies and missing series are all errors.
func (p *CBBIProvider) FetchSnapshot(ctx context.Context) (*domain.SentimentSnapshot, error) {
	ctx, span := p.tracer.Start(ctx, "cbbi.fetch-snapshot")
	defer span.End()
	span.SetAttributes(attribute.String("url", p.url))

	resp, err := p.client.R().SetContext(ctx).Get(p.url)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("fetch cbbi data: %w", err)
	}
	if !resp.IsSuccess() {
		err := fmt.Errorf("cbbi API error %d: %s", resp.StatusCode(), truncate(resp.String(), 200))
		span.RecordError(err)
		return nil, err
	}

	snapshot, err := ParseSnapshot(resp.Body())
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("confidence.points", len(snapshot.Confidence)),
		attribute.Int("price.points", len(snapshot.Price)),
	)
	return snapshot, nil
}

// ParseSnapshot extracts the two series from a raw payload, preserving the
// key order of the document. Other top-level fields are ignored.
func ParseSnapshot(body []byte) (*domain.SentimentSnapshot, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrInvalidJSON
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top level is not an object", ErrInvalidJSON)
	}

	confidence, err := seriesField(root, domain.FieldConfidence)
	if err != nil {
		return nil, err
	}
	price, err := seriesField(root, domain.FieldPrice)
	if err != nil {
		return nil, err
	}
	return &domain.SentimentSnapshot{Confidence: confidence, Price: price}, nil
}

func seriesField(root gjson.Result, name string) (domain.TimeSeries, error) {
	field := root.Get(name)
	if !field.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	if !field.IsObject() {
		return nil, fmt.Errorf("%w: %s is not an object", ErrMissingField, name)
	}

	series := domain.TimeSeries{}
	var last gjson.Result
	field.ForEach(func(key, value gjson.Result) bool {
		series = append(series, domain.Observation{Key: key.String(), Value: value.Float()})
		last = value
		return true
	})

	// Only the newest entry is published; it must be a finite number.
	if len(series) > 0 {
		v := series[len(series)-1].Value
		if last.Type != gjson.Number || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s has %q", ErrInvalidValue, name, last.Raw)
		}
	}
	return series, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
