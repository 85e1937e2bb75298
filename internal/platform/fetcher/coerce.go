package fetcher

import (
	"bytes"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

func decodeJSON(raw []byte) (any, error) {
	var out any
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, crerr.Mark(crerr.Wrap(err, "decode json"), ErrParseFailure)
	}
	return out, nil
}

// coerceJSON extracts a JSON document from a text body: first the trimmed
// body, then the span from the first opening bracket to its last matching
// closer.
func coerceJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, crerr.Mark(crerr.New("empty body"), ErrParseFailure)
	}
	if v, err := decodeJSON(trimmed); err == nil {
		return v, nil
	}

	start := bytes.IndexAny(trimmed, "{[")
	if start < 0 {
		return nil, crerr.Mark(crerr.New("no json document in text body"), ErrParseFailure)
	}
	closer := byte('}')
	if trimmed[start] == '[' {
		closer = ']'
	}
	end := bytes.LastIndexByte(trimmed, closer)
	if end <= start {
		return nil, crerr.Mark(crerr.New("unterminated json document in text body"), ErrParseFailure)
	}
	return decodeJSON(trimmed[start : end+1])
}
