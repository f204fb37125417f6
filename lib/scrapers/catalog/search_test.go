package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"updatecatalog/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func newTestClient(t testing.TB, handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)
	return client, server
}

func TestSearchIterator(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/catalog")
	defer cleanup()

	requests := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		require.Equal(t, searchPath, r.URL.Path)

		switch r.Method {
		case http.MethodGet:
			require.Equal(t, "KB5030211", r.URL.Query().Get("q"))
			w.Write(fixture(t, "search_page1.html"))
		case http.MethodPost:
			// the postback must echo the exact token bundle of the
			// previous response
			require.Equal(t, nextPageEventTarget, r.PostFormValue("__EVENTTARGET"))
			require.Equal(t, "VS-PAGE1-TOKEN", r.PostFormValue("__VIEWSTATE"))
			require.Equal(t, "EV-PAGE1-TOKEN", r.PostFormValue("__EVENTVALIDATION"))
			require.Equal(t, "BBBC20B8", r.PostFormValue("__VIEWSTATEGENERATOR"))
			w.Write(fixture(t, "search_page2.html"))
		default:
			t.Fatalf("unexpected method %s", r.Method)
		}
	}))

	it := client.Search("KB5030211")
	require.Equal(t, "KB5030211", it.Query())
	// creating a search must not touch the network
	require.Equal(t, 0, requests)

	ctx := context.Background()

	page1, err := it.NextPage(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, page1.Len())
	require.False(t, page1.Truncated)
	require.Equal(t, "453112b9-83bb-403c-9263-018ffe515016", page1.Updates[0].ID)
	require.Equal(t, "97fcb38d-dcb2-41e7-b75b-96327b676926", page1.Updates[1].ID)

	page2, err := it.NextPage(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, page2.Len())
	require.Equal(t, "0aec0f4e-5228-4f59-bfc4-08e3c3cd32bb", page2.Updates[0].ID)
	require.Equal(t, "c0e5f33a-0509-4891-9935-438d061b806e", page2.Updates[1].ID)

	// exhausted, and stays exhausted without further requests
	for i := 0; i < 3; i++ {
		page, err := it.NextPage(ctx)
		require.NoError(t, err)
		require.Nil(t, page)
	}
	require.Equal(t, 2, requests)
}

func TestSearchIteratorIndependentSessions(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			// only the paginated search posts back, with its own tokens
			require.Equal(t, "KB5030211", r.URL.Query().Get("q"))
			require.Equal(t, "VS-PAGE1-TOKEN", r.PostFormValue("__VIEWSTATE"))
			w.Write(fixture(t, "search_page2.html"))
			return
		}
		switch r.URL.Query().Get("q") {
		case "KB5030211":
			w.Write(fixture(t, "search_page1.html"))
		case "MS08-067":
			w.Write(fixture(t, "search_results.html"))
		default:
			t.Fatalf("unexpected query %q", r.URL.Query().Get("q"))
		}
	}))

	ctx := context.Background()
	itA := client.Search("KB5030211")
	itB := client.Search("MS08-067")

	pageA, err := itA.NextPage(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, pageA.Len())

	// advancing B in between must not disturb A's token bundle
	pageB, err := itB.NextPage(ctx)
	require.NoError(t, err)
	require.Equal(t, "9602ca4a-80a7-4d73-94c3-0088fcb5bce3", pageB.Updates[0].ID)

	pageA, err = itA.NextPage(ctx)
	require.NoError(t, err)
	require.Equal(t, "0aec0f4e-5228-4f59-bfc4-08e3c3cd32bb", pageA.Updates[0].ID)
}

func TestSearchIteratorEmptyResults(t *testing.T) {
	requests := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write(fixture(t, "search_empty.html"))
	}))

	it := client.Search("nosuchthing")
	ctx := context.Background()

	// an empty first page is a real, zero-length page
	page, err := it.NextPage(ctx)
	require.NoError(t, err)
	require.NotNil(t, page)
	require.Equal(t, 0, page.Len())
	require.False(t, page.Truncated)

	page, err = it.NextPage(ctx)
	require.NoError(t, err)
	require.Nil(t, page)
	require.Equal(t, 1, requests)
}

func TestSearchIteratorTruncated(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(fixture(t, "search_truncated.html"))
	}))

	page, err := client.Search("windows").NextPage(context.Background())
	require.NoError(t, err)
	require.True(t, page.Truncated)
	require.Equal(t, 1, page.Len())
}

func TestSearchIteratorMissingTokens(t *testing.T) {
	requests := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write(fixture(t, "search_missing_tokens.html"))
	}))

	it := client.Search("KB5030211")
	ctx := context.Background()

	_, err := it.NextPage(ctx)
	require.ErrorIs(t, err, ErrTokensMissing)
	var protocolErr *ProtocolError
	require.ErrorAs(t, err, &protocolErr)

	// the failure is sticky and repeats without a new request
	_, again := it.NextPage(ctx)
	require.Equal(t, err, again)
	require.Equal(t, 1, requests)
}

func TestSearchIteratorServerError(t *testing.T) {
	requests := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	}))

	it := client.Search("KB5030211")
	ctx := context.Background()

	_, err := it.NextPage(ctx)
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, http.StatusInternalServerError, transportErr.Status)

	_, again := it.NextPage(ctx)
	require.Equal(t, err, again)
	require.Equal(t, 1, requests)
}

func TestSearchIteratorHiddenError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(fixture(t, "search_error.html"))
	}))

	_, err := client.Search("KB5030211").NextPage(context.Background())
	var catalogErr *CatalogError
	require.ErrorAs(t, err, &catalogErr)
	require.Equal(t, "8DDD0010", catalogErr.Code)
}
