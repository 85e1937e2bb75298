package fetcher

import (
	"net/url"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

// StrategyKind selects how a relay rewrites the target URL.
type StrategyKind string

const (
	// KindDirect requests the target as-is.
	KindDirect StrategyKind = "direct"
	// KindPrefix appends the raw target URL to the relay base.
	KindPrefix StrategyKind = "prefix"
	// KindQuery appends the query-escaped target URL to the relay base.
	KindQuery StrategyKind = "query"
	// KindReader appends the scheme-less target to the relay base. Reader
	// relays answer with text that may wrap the JSON document.
	KindReader StrategyKind = "reader"
)

// Strategy is one transport path in the fetch chain.
type Strategy struct {
	Name string
	Kind StrategyKind
	Base string
}

func Direct() Strategy {
	return Strategy{Name: string(KindDirect), Kind: KindDirect}
}

// DefaultRelays are the public passthrough relays, in the order they are tried
// after the direct request fails.
func DefaultRelays() []Strategy {
	return []Strategy{
		{Name: "relay_prefix", Kind: KindPrefix, Base: "https://cors.isomorphic-git.org/"},
		{Name: "relay_query", Kind: KindQuery, Base: "https://api.allorigins.win/raw?url="},
		{Name: "relay_reader", Kind: KindReader, Base: "https://r.jina.ai/http/"},
	}
}

// ParseRelays reads relay definitions of the form "kind=base", e.g.
// "prefix=https://cors.isomorphic-git.org/". Order is preserved.
func ParseRelays(items []string) ([]Strategy, error) {
	out := make([]Strategy, 0, len(items))
	for i, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		kindRaw, base, ok := strings.Cut(item, "=")
		if !ok || strings.TrimSpace(base) == "" {
			return nil, crerr.Newf("relay %d: expected kind=base, got %q", i, item)
		}
		kind := StrategyKind(strings.ToLower(strings.TrimSpace(kindRaw)))
		switch kind {
		case KindPrefix, KindQuery, KindReader:
		default:
			return nil, crerr.Newf("relay %d: unsupported kind %q", i, kindRaw)
		}
		base = strings.TrimSpace(base)
		if _, err := url.Parse(base); err != nil {
			return nil, crerr.Wrapf(err, "relay %d: invalid base", i)
		}
		out = append(out, Strategy{
			Name: "relay_" + string(kind),
			Kind: kind,
			Base: base,
		})
	}
	return out, nil
}

// Rewrite returns the URL this strategy requests for target.
func (s Strategy) Rewrite(target string) string {
	switch s.Kind {
	case KindPrefix:
		return s.Base + target
	case KindQuery:
		return s.Base + url.QueryEscape(target)
	case KindReader:
		trimmed := strings.TrimPrefix(strings.TrimPrefix(target, "https://"), "http://")
		return s.Base + trimmed
	default:
		return target
	}
}

// coercesText reports whether JSON must be dug out of a text response.
func (s Strategy) coercesText() bool {
	return s.Kind == KindReader
}
