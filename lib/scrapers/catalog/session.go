package catalog

import (
	"context"

	"github.com/go-resty/resty/v2"
)

// nextPageEventTarget is the ASP.NET control the catalog expects in
// __EVENTTARGET when the "next page" link is followed.
const nextPageEventTarget = "ctl00$catalogBody$nextPageLinkText"

// pageMeta is the hidden token bundle a WebForms server requires on
// every postback. The values change on every response; a request may
// only carry the bundle extracted from the immediately preceding one.
type pageMeta struct {
	eventTarget        string
	eventArgument      string
	eventValidation    string
	viewState          string
	viewStateGenerator string
}

func (m pageMeta) formData() map[string]string {
	return map[string]string{
		"__EVENTTARGET":        m.eventTarget,
		"__EVENTARGUMENT":      m.eventArgument,
		"__EVENTVALIDATION":    m.eventValidation,
		"__VIEWSTATE":          m.viewState,
		"__VIEWSTATEGENERATOR": m.viewStateGenerator,
	}
}

// searchSession owns the mutable postback state of one search. It is
// exclusive to a single SearchIterator and never shared.
type searchSession struct {
	query string
	page  int
	meta  pageMeta
}

func newSearchSession(query string) searchSession {
	return searchSession{query: query}
}

// fetch requests the current page: a plain GET for the first page, a
// same-URL form POST carrying the token bundle for every later one.
// Cookie continuity comes from the client's jar.
func (s *searchSession) fetch(ctx context.Context, http *resty.Client) (*resty.Response, error) {
	req := http.R().
		SetContext(ctx).
		SetQueryParam("q", s.query)
	if s.page == 0 {
		return req.Get(searchPath)
	}
	return req.SetFormData(s.meta.formData()).Post(searchPath)
}

// advance installs the token bundle extracted from the most recent
// response, replacing the spent one.
func (s *searchSession) advance(meta pageMeta) {
	s.meta = meta
	s.page++
}
