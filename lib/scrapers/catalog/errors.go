package catalog

import (
	"errors"
	"fmt"
)

// ErrTokensMissing reports that a search response did not carry the
// hidden postback fields needed to request the next page. It is always
// wrapped in a *ProtocolError.
var ErrTokensMissing = errors.New("postback token bundle missing from response")

// ErrNotFound reports that the catalog does not know the requested
// update id.
var ErrNotFound = errors.New("update not found in the catalog")

// TransportError is a network or HTTP-layer failure. Status is zero
// when the request never produced a response.
type TransportError struct {
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport: %s", e.Err)
	}
	return fmt.Sprintf("transport: server returned status %d", e.Status)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError reports that the postback session desynchronized: the
// server changed its page shape, expired the session, or rejected the
// token bundle. The search must be restarted from scratch.
type ProtocolError struct {
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("postback protocol: %s", e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// ParseError reports markup that is present but unusable: a required
// field could not be extracted.
type ParseError struct {
	Field string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse: missing required field %q", e.Field)
}

// CatalogError is the catalog's hidden error page: a 200 response
// whose body carries a server-side error number such as 8DDD0010.
type CatalogError struct {
	Code string
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("catalog returned an error page, code %s", e.Code)
}
