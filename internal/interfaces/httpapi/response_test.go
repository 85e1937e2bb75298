package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/hoops-hub/internal/platform/fetcher"
	"github.com/riskibarqy/hoops-hub/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestMapError_StatusCodes(t *testing.T) {
	t.Parallel()

	exhausted := &fetcher.FetchExhaustedError{
		URL:      "https://site.api.espn.com/teams/57",
		Attempts: []fetcher.Attempt{{Strategy: "direct", Err: fmt.Errorf("status 503")}},
	}

	tests := []struct {
		name   string
		err    error
		want   int
		reason string
		status string
	}{
		{name: "invalid input", err: fmt.Errorf("%w: season abc", usecase.ErrInvalidInput), want: http.StatusBadRequest, reason: "invalidInput", status: "INVALID_ARGUMENT"},
		{name: "not found", err: fmt.Errorf("%w: season 2019", usecase.ErrNotFound), want: http.StatusNotFound, reason: "notFound", status: "NOT_FOUND"},
		{name: "section unavailable", err: fmt.Errorf("%w: all 4 game summaries failed", usecase.ErrDependencyUnavailable), want: http.StatusServiceUnavailable, reason: "sectionUnavailable", status: "UNAVAILABLE"},
		{name: "transports exhausted", err: fmt.Errorf("load roster: %w", exhausted), want: http.StatusBadGateway, reason: "upstreamUnreachable", status: "UNAVAILABLE"},
		{name: "malformed payload", err: fmt.Errorf("%w: standings", fetcher.ErrParseFailure), want: http.StatusBadGateway, reason: "upstreamMalformed", status: "UNAVAILABLE"},
		{name: "deadline", err: fmt.Errorf("live poll: %w", context.DeadlineExceeded), want: http.StatusGatewayTimeout, reason: "deadlineExceeded", status: "DEADLINE_EXCEEDED"},
		{name: "cancelled", err: context.Canceled, want: statusClientClosedRequest, reason: "requestCancelled", status: "CANCELLED"},
		{name: "unknown", err: fmt.Errorf("boom"), want: http.StatusInternalServerError, reason: "internalError", status: "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := mapError(context.Background(), tt.err)
			if got.HTTPStatus != tt.want || got.Reason != tt.reason || got.Status != tt.status {
				t.Fatalf("unexpected mapping: got=%+v want=%d/%s/%s", got, tt.want, tt.reason, tt.status)
			}
		})
	}
}
