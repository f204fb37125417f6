package catalog

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type iterState int

const (
	stateCreated iterState = iota
	stateReady
	stateExhausted
	stateFailed
)

// SearchIterator walks a search's result pages lazily. Each instance
// owns an exclusive postback session; it is not safe for concurrent
// use and cannot be restarted once exhausted or failed. Create a new
// search instead.
type SearchIterator struct {
	client  *Client
	session searchSession
	state   iterState
	err     error
}

// Query returns the search text this iterator was created with.
func (it *SearchIterator) Query() string {
	return it.session.query
}

// NextPage fetches the next page of results. It returns (nil, nil)
// once the results are exhausted. Both terminal states are sticky:
// calling again after nil or an error repeats the same outcome without
// touching the network. Errors are never retried internally; a failed
// search must be recreated.
//
// Pages arrive strictly in the catalog's order: each request carries
// the token bundle extracted from the previous response, so page N+1
// can only ever be requested after page N completed.
func (it *SearchIterator) NextPage(ctx context.Context) (*Page, error) {
	switch it.state {
	case stateExhausted:
		return nil, nil
	case stateFailed:
		return nil, it.err
	}

	ctx, span := tracer.Start(ctx, "iterator:NextPage")
	defer span.End()

	res, err := it.session.fetch(ctx, it.client.http)
	if err != nil {
		return nil, it.fail(span, &TransportError{Err: err})
	}
	if res.IsError() {
		return nil, it.fail(span, &TransportError{Status: res.StatusCode()})
	}

	parsed, err := parseSearchPage(res.Body())
	if err != nil {
		return nil, it.fail(span, err)
	}

	firstPage := it.state == stateCreated
	if len(parsed.updates) == 0 {
		it.state = stateExhausted
		if firstPage {
			// an empty first page is a valid result, not an error
			return &Page{}, nil
		}
		return nil, nil
	}

	if parsed.hasNext {
		it.session.advance(parsed.meta)
		it.state = stateReady
	} else {
		it.state = stateExhausted
	}
	return &Page{
		Updates:   parsed.updates,
		Truncated: parsed.truncated,
	}, nil
}

func (it *SearchIterator) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, "page fetch failed")
	it.state = stateFailed
	it.err = err
	return err
}
