package fetcher

import (
	"bytes"
	"context"
	"io"
	"net/http"

	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/riskibarqy/hoops-hub/internal/platform/logging"
	"github.com/riskibarqy/hoops-hub/internal/platform/resilience"
)

const defaultMaxBodyBytes = 8 << 20

var tracer = otel.Tracer("github.com/riskibarqy/hoops-hub/internal/platform/fetcher")

type Config struct {
	// HTTPClient defaults to a client with an instrumented transport and no
	// timeout. Callers bound requests through their context.
	HTTPClient     *http.Client
	Relays         []Strategy
	MaxBodyBytes   int64
	CircuitBreaker resilience.CircuitBreakerConfig
	Logger         *logging.Logger
}

// Fetcher walks an ordered chain of transports and returns the first payload
// that arrives and decodes. Each strategy is tried once.
type Fetcher struct {
	client     *http.Client
	strategies []Strategy
	maxBody    int64
	breakers   *resilience.BreakerSet
	logger     *logging.Logger

	jsonFlight resilience.Flight[any]
	textFlight resilience.Flight[string]
}

func New(cfg Config) *Fetcher {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	strategies := make([]Strategy, 0, len(cfg.Relays)+1)
	strategies = append(strategies, Direct())
	strategies = append(strategies, cfg.Relays...)

	return &Fetcher{
		client:     client,
		strategies: strategies,
		maxBody:    maxBody,
		breakers:   resilience.NewBreakerSet(cfg.CircuitBreaker),
		logger:     logger.Named("fetcher"),
	}
}

// FetchJSON returns the decoded JSON document at target. The result is a
// generic tree of map[string]any, []any, string, float64, bool and nil.
func (f *Fetcher) FetchJSON(ctx context.Context, target string) (any, error) {
	v, _, err := f.jsonFlight.Do(ctx, target, func(ctx context.Context) (any, error) {
		return run(ctx, f, "fetcher.FetchJSON", target, func(s Strategy, body []byte) (any, error) {
			if s.coercesText() {
				return coerceJSON(body)
			}
			return decodeJSON(body)
		})
	})
	return v, err
}

// FetchText returns the body at target as a string.
func (f *Fetcher) FetchText(ctx context.Context, target string) (string, error) {
	v, _, err := f.textFlight.Do(ctx, target, func(ctx context.Context) (string, error) {
		return run(ctx, f, "fetcher.FetchText", target, func(_ Strategy, body []byte) (string, error) {
			return string(body), nil
		})
	})
	return v, err
}

// BreakerStates reports the circuit state of each strategy that has been used.
func (f *Fetcher) BreakerStates() map[string]resilience.CircuitState {
	return f.breakers.States()
}

func run[T any](ctx context.Context, f *Fetcher, spanName, target string, decode func(Strategy, []byte) (T, error)) (T, error) {
	var zero T
	ctx, span := tracer.Start(ctx, spanName)
	defer span.End()
	span.SetAttributes(attribute.String("fetch.url", target))

	attempts := make([]Attempt, 0, len(f.strategies))
	for _, s := range f.strategies {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "context done")
			return zero, err
		}

		breaker := f.breakers.Get(s.Name)
		if err := breaker.Allow(); err != nil {
			attempts = append(attempts, Attempt{Strategy: s.Name, Err: err})
			f.logger.DebugContext(ctx, "fetch strategy skipped", "strategy", s.Name, "url", target, "state", breaker.State())
			continue
		}

		body, err := f.get(ctx, s.Rewrite(target))
		if err == nil {
			var out T
			out, err = decode(s, body)
			if err == nil {
				breaker.RecordSuccess()
				span.SetAttributes(attribute.String("fetch.strategy", s.Name), attribute.Int("fetch.attempts", len(attempts)+1))
				return out, nil
			}
		}

		if countsAgainstBreaker(err) && ctx.Err() == nil {
			breaker.RecordFailure()
		} else {
			breaker.RecordSuccess()
		}
		attempts = append(attempts, Attempt{Strategy: s.Name, Err: err})
		f.logger.DebugContext(ctx, "fetch strategy failed", "strategy", s.Name, "url", target, "error", err)
	}

	if err := ctx.Err(); err != nil {
		return zero, err
	}

	exhausted := &FetchExhaustedError{URL: target, Attempts: attempts}
	span.RecordError(exhausted)
	span.SetStatus(codes.Error, "transport exhausted")
	f.logger.WarnContext(ctx, "fetch exhausted all transports", "url", target, "attempts", len(attempts))
	return zero, exhausted
}

func (f *Fetcher) get(ctx context.Context, requestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	req.Header.Set("accept", "application/json, text/plain, */*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, crerr.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, &statusError{code: resp.StatusCode}
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	n, err := buf.ReadFrom(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, crerr.Wrap(err, "read response body")
	}
	if n > f.maxBody {
		return nil, crerr.Newf("response body exceeds %d bytes", f.maxBody)
	}
	if len(bytes.TrimSpace(buf.B)) == 0 {
		return nil, crerr.Mark(crerr.New("empty response body"), ErrParseFailure)
	}

	out := make([]byte, len(buf.B))
	copy(out, buf.B)
	return out, nil
}
