package provider

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"go.opentelemetry.io/otel/trace"
)

const samplePayload = `{
	"Price": {"1700000000": 35000.1, "1700086400": 36000.25, "1699913600": 61234.567},
	"PiCycle": {"1700000000": 0.4},
	"Confidence": {"1700000000": 0.5, "1700086400": 0.61, "1699913600": 0.8734}
}`

func newTestProvider(url string) *CBBIProvider {
	return NewCBBIProvider(trace.NewNoopTracerProvider().Tracer("test"), url, 2*time.Second)
}

func TestFetchSnapshotPreservesDocumentOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method: %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(samplePayload))
	}))
	defer srv.Close()

	snapshot, err := newTestProvider(srv.URL).FetchSnapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshot.Confidence) != 3 || len(snapshot.Price) != 3 {
		t.Fatalf("unexpected snapshot sizes: %+v", snapshot)
	}
	if snapshot.Confidence[2].Key != "1699913600" {
		t.Fatalf("expected document order, got %+v", snapshot.Confidence)
	}

	confidence, _ := snapshot.Confidence.Latest()
	price, _ := snapshot.Price.Latest()
	if confidence != 0.8734 || price != 61234.567 {
		t.Fatalf("unexpected latest values: %v %v", confidence, price)
	}
}

func TestFetchSnapshotNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := newTestProvider(srv.URL).FetchSnapshot(context.Background()); err == nil {
		t.Fatal("expected error for 502 response")
	}
}

func TestFetchSnapshotInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	_, err := newTestProvider(srv.URL).FetchSnapshot(context.Background())
	if !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("expected ErrInvalidJSON, got %v", err)
	}
}

func TestFetchSnapshotTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	if _, err := newTestProvider(url).FetchSnapshot(context.Background()); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestFetchSnapshotBrotliBody(t *testing.T) {
	var buf bytes.Buffer
	bw := brotli.NewWriter(&buf)
	if _, err := bw.Write([]byte(samplePayload)); err != nil {
		t.Fatalf("compress: %v", err)
	}
	if err := bw.Close(); err != nil {
		t.Fatalf("compress close: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept-Encoding") != "br" {
			t.Errorf("unexpected Accept-Encoding: %q", r.Header.Get("Accept-Encoding"))
		}
		w.Header().Set("Content-Encoding", "br")
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	snapshot, err := newTestProvider(srv.URL).FetchSnapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshot.Price) != 3 {
		t.Fatalf("unexpected price series: %+v", snapshot.Price)
	}
}

func TestParseSnapshotMissingField(t *testing.T) {
	_, err := ParseSnapshot([]byte(`{"Confidence": {"1": 0.5}}`))
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}

	_, err = ParseSnapshot([]byte(`{"Confidence": [0.5], "Price": {"1": 1}}`))
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField for non-object series, got %v", err)
	}
}

func TestParseSnapshotEmptySeriesIsNotAFetchError(t *testing.T) {
	snapshot, err := ParseSnapshot([]byte(`{"Confidence": {}, "Price": {}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshot.Confidence) != 0 || len(snapshot.Price) != 0 {
		t.Fatalf("expected empty series, got %+v", snapshot)
	}
}

func TestParseSnapshotRejectsNonObject(t *testing.T) {
	if _, err := ParseSnapshot([]byte(`[1,2,3]`)); !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("expected ErrInvalidJSON, got %v", err)
	}
	if _, err := ParseSnapshot(nil); !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("expected ErrInvalidJSON for empty body, got %v", err)
	}
}

func TestParseSnapshotRejectsUnusableLatestValue(t *testing.T) {
	payloads := []string{
		`{"Confidence": {"1": 0.5, "2": null}, "Price": {"1": 100}}`,
		`{"Confidence": {"1": 0.5}, "Price": {"1": 100, "2": "n/a"}}`,
		`{"Confidence": {"1": 0.5}, "Price": {"1": 1e400}}`,
	}
	for _, body := range payloads {
		if _, err := ParseSnapshot([]byte(body)); !errors.Is(err, ErrInvalidValue) {
			t.Fatalf("expected ErrInvalidValue for %s, got %v", body, err)
		}
	}
}

func TestParseSnapshotToleratesOlderNullValues(t *testing.T) {
	snapshot, err := ParseSnapshot([]byte(`{"Confidence": {"1": null, "2": 0.7}, "Price": {"1": 100}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := snapshot.Confidence.Latest(); v != 0.7 {
		t.Fatalf("expected latest 0.7, got %v", v)
	}
}
