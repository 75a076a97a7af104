package sentiment_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/nivaranhq/nivaran/internal/sentiment"
)

type mockSystem struct {
	sentiment.System

	gotKey   sentiment.Key
	gotDelta sentiment.Counts
}

func (m *mockSystem) Record(_ context.Context, key sentiment.Key, delta sentiment.Counts) (*sentiment.Record, error) {
	m.gotKey = key
	m.gotDelta = delta
	return &sentiment.Record{Key: key, Counts: delta}, nil
}

func TestRecordEndpoint(t *testing.T) {
	politicianID := uuid.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name string
		body string
		want sentiment.Counts
	}{
		{
			name: "positive score partitioned",
			body: `{"politician_id": %q, "platform": "facebook", "day": "2026-08-01", "score": 0.6}`,
			want: sentiment.Counts{Positive: 1},
		},
		{
			name: "negative score partitioned",
			body: `{"politician_id": %q, "platform": "facebook", "day": "2026-08-01", "score": -0.5}`,
			want: sentiment.Counts{Negative: 1},
		},
		{
			name: "near-zero score is neutral",
			body: `{"politician_id": %q, "platform": "facebook", "day": "2026-08-01", "score": 0.05}`,
			want: sentiment.Counts{Neutral: 1},
		},
		{
			name: "pre-partitioned counts pass through",
			body: `{"politician_id": %q, "platform": "x", "day": "2026-08-01", "positive": 2, "neutral": 1, "negative": 3}`,
			want: sentiment.Counts{Positive: 2, Neutral: 1, Negative: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := &mockSystem{}
			h := sentiment.NewHandler(sys, logger)

			body := fmt.Sprintf(tt.body, politicianID)
			req := httptest.NewRequest(http.MethodPost, "/record", strings.NewReader(body))
			rec := httptest.NewRecorder()

			h.Record(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200, body %s", rec.Code, rec.Body.String())
			}
			if sys.gotKey.PoliticianID != politicianID {
				t.Errorf("key politician: got %s, want %s", sys.gotKey.PoliticianID, politicianID)
			}
			if sys.gotDelta != tt.want {
				t.Errorf("delta: got %+v, want %+v", sys.gotDelta, tt.want)
			}
		})
	}
}

func TestRecordEndpointRejectsMissingPolitician(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := sentiment.NewHandler(&mockSystem{}, logger)

	req := httptest.NewRequest(
		http.MethodPost,
		"/record",
		strings.NewReader(`{"platform": "facebook", "day": "2026-08-01", "score": 0.6}`),
	)
	rec := httptest.NewRecorder()

	h.Record(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}
