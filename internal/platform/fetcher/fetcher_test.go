package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/hoops-hub/internal/platform/resilience"
)

func statusServer(t *testing.T, code int, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.WriteHeader(code)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func bodyServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestFetcher(relays ...Strategy) *Fetcher {
	return New(Config{
		Relays:         relays,
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})
}

func TestFetchJSON_DirectSuccess(t *testing.T) {
	t.Parallel()

	srv := bodyServer(t, `{"team":{"id":"57"}}`)
	f := newTestFetcher()

	got, err := f.FetchJSON(context.Background(), srv.URL+"/teams/57")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	root, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("unexpected payload type: %T", got)
	}
	team, _ := root["team"].(map[string]any)
	if team["id"] != "57" {
		t.Fatalf("unexpected team id: got=%v want=57", team["id"])
	}
}

func TestFetchJSON_AllTransportsFailSurfacesExhausted(t *testing.T) {
	t.Parallel()

	direct := statusServer(t, http.StatusInternalServerError, nil)
	relayA := statusServer(t, http.StatusInternalServerError, nil)
	relayB := statusServer(t, http.StatusBadGateway, nil)
	relayC := statusServer(t, http.StatusServiceUnavailable, nil)

	f := newTestFetcher(
		Strategy{Name: "relay_prefix", Kind: KindPrefix, Base: relayA.URL + "/"},
		Strategy{Name: "relay_query", Kind: KindQuery, Base: relayB.URL + "/raw?url="},
		Strategy{Name: "relay_reader", Kind: KindReader, Base: relayC.URL + "/http/"},
	)

	target := direct.URL + "/summary?event=401"
	_, err := f.FetchJSON(context.Background(), target)
	if !errors.Is(err, ErrTransportExhausted) {
		t.Fatalf("unexpected error: got=%v want=%v", err, ErrTransportExhausted)
	}

	var exhausted *FetchExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected *FetchExhaustedError, got %T", err)
	}
	if exhausted.URL != target {
		t.Fatalf("unexpected url: got=%s want=%s", exhausted.URL, target)
	}
	if len(exhausted.Attempts) != 4 {
		t.Fatalf("unexpected attempts: got=%d want=4", len(exhausted.Attempts))
	}
	wantOrder := []string{"direct", "relay_prefix", "relay_query", "relay_reader"}
	for i, a := range exhausted.Attempts {
		if a.Strategy != wantOrder[i] {
			t.Fatalf("unexpected strategy order at %d: got=%s want=%s", i, a.Strategy, wantOrder[i])
		}
	}
}

func TestFetchJSON_FallsBackToQueryRelayWithEscapedTarget(t *testing.T) {
	t.Parallel()

	direct := statusServer(t, http.StatusInternalServerError, nil)
	var seen atomic.Value
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.Store(r.URL.Query().Get("url"))
		_, _ = w.Write([]byte(`[1,2,3]`))
	}))
	t.Cleanup(relay.Close)

	f := newTestFetcher(Strategy{Name: "relay_query", Kind: KindQuery, Base: relay.URL + "/raw?url="})

	target := direct.URL + "/teams/57/schedule?season=2026&seasontype=2"
	got, err := f.FetchJSON(context.Background(), target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items, _ := got.([]any); len(items) != 3 {
		t.Fatalf("unexpected payload: %v", got)
	}
	if seen.Load() != target {
		t.Fatalf("unexpected relayed url: got=%v want=%s", seen.Load(), target)
	}
}

func TestFetchJSON_ReaderRelayCoercesWrappedText(t *testing.T) {
	t.Parallel()

	direct := bodyServer(t, `<html>blocked</html>`)
	reader := bodyServer(t, "Title: roster\n\nMarkdown Content:\n{\"athletes\":[{\"id\":\"1\"}]}\n")

	f := newTestFetcher(Strategy{Name: "relay_reader", Kind: KindReader, Base: reader.URL + "/http/"})

	got, err := f.FetchJSON(context.Background(), direct.URL+"/roster")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	root, _ := got.(map[string]any)
	if athletes, _ := root["athletes"].([]any); len(athletes) != 1 {
		t.Fatalf("unexpected coerced payload: %v", got)
	}
}

func TestFetchJSON_CanceledContextStopsChain(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	relay := statusServer(t, http.StatusOK, &hits)
	f := newTestFetcher(Strategy{Name: "relay_prefix", Kind: KindPrefix, Base: relay.URL + "/"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.FetchJSON(ctx, "http://127.0.0.1:1/unreachable")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("unexpected error: got=%v want=%v", err, context.Canceled)
	}
	if hits.Load() != 0 {
		t.Fatalf("relay should not be contacted after cancellation")
	}
}

func TestFetchJSON_SharedFetchIgnoresOtherCallersDeadline(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"id":"401"}`))
	}))
	t.Cleanup(srv.Close)
	f := newTestFetcher()
	target := srv.URL + "/summary/401"

	shortCtx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	shortErr := make(chan error, 1)
	go func() {
		_, err := f.FetchJSON(shortCtx, target)
		shortErr <- err
	}()
	time.Sleep(10 * time.Millisecond)

	got, err := f.FetchJSON(context.Background(), target)
	if err != nil {
		t.Fatalf("caller without deadline inherited a failure: %v", err)
	}
	root, _ := got.(map[string]any)
	if root["id"] != "401" {
		t.Fatalf("unexpected payload: got=%v", got)
	}
	if err := <-shortErr; !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("unexpected short caller error: got=%v want=%v", err, context.DeadlineExceeded)
	}
	if n := hits.Load(); n != 1 {
		t.Fatalf("expected one upstream request, got %d", n)
	}
}

func TestFetchJSON_OpenBreakerSkipsStrategy(t *testing.T) {
	t.Parallel()

	var directHits atomic.Int32
	direct := statusServer(t, http.StatusInternalServerError, &directHits)
	relay := bodyServer(t, `{"ok":true}`)

	f := New(Config{
		Relays: []Strategy{{Name: "relay_prefix", Kind: KindPrefix, Base: relay.URL + "/"}},
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Hour,
			HalfOpenMaxReq:   1,
		},
	})

	for _, path := range []string{"/a", "/b"} {
		if _, err := f.FetchJSON(context.Background(), direct.URL+path); err != nil {
			t.Fatalf("unexpected error for %s: %v", path, err)
		}
	}
	if got := directHits.Load(); got != 1 {
		t.Fatalf("unexpected direct hits: got=%d want=1", got)
	}
	if state := f.BreakerStates()["direct"]; state != resilience.CircuitStateOpen {
		t.Fatalf("unexpected direct breaker state: got=%s want=%s", state, resilience.CircuitStateOpen)
	}
}

func TestFetchText_ReturnsBody(t *testing.T) {
	t.Parallel()

	srv := bodyServer(t, `<table><tr data-append-csv="x"></tr></table>`)
	f := newTestFetcher()

	got, err := f.FetchText(context.Background(), srv.URL+"/cbb/schools/florida/2023.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `<table><tr data-append-csv="x"></tr></table>` {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestCoerceJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{name: "plain object", in: `{"a":1}`},
		{name: "padded array", in: "  \n[1,2]\n "},
		{name: "wrapped object", in: "header\n{\"a\":{\"b\":2}}\ntrailer"},
		{name: "no document", in: "nothing here", wantErr: true},
		{name: "empty", in: "   ", wantErr: true},
		{name: "broken", in: "x {\"a\": } y", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := coerceJSON([]byte(tc.in))
			if tc.wantErr {
				if !crerr.Is(err, ErrParseFailure) {
					t.Fatalf("unexpected error: got=%v want parse failure", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestStrategyRewrite(t *testing.T) {
	t.Parallel()

	target := "https://site.api.espn.com/apis/x?season=2026"
	relays := DefaultRelays()

	want := []string{
		"https://cors.isomorphic-git.org/https://site.api.espn.com/apis/x?season=2026",
		"https://api.allorigins.win/raw?url=https%3A%2F%2Fsite.api.espn.com%2Fapis%2Fx%3Fseason%3D2026",
		"https://r.jina.ai/http/site.api.espn.com/apis/x?season=2026",
	}
	for i, s := range relays {
		if got := s.Rewrite(target); got != want[i] {
			t.Fatalf("unexpected rewrite for %s: got=%s want=%s", s.Name, got, want[i])
		}
	}
	if got := Direct().Rewrite(target); got != target {
		t.Fatalf("direct must not rewrite: got=%s", got)
	}
}

func TestParseRelays(t *testing.T) {
	t.Parallel()

	got, err := ParseRelays([]string{"prefix=https://a.example/", " query=https://b.example/raw?url= ", ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Kind != KindPrefix || got[1].Kind != KindQuery {
		t.Fatalf("unexpected relays: %+v", got)
	}

	if _, err := ParseRelays([]string{"smoke=https://c.example/"}); err == nil {
		t.Fatalf("expected error for unsupported kind")
	}
	if _, err := ParseRelays([]string{"prefix"}); err == nil {
		t.Fatalf("expected error for missing base")
	}
}
