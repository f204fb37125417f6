package restyutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestDumpExchanges(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>hello</html>"))
	}))
	defer server.Close()

	dir := t.TempDir()
	output, err := NewFilesystemOutput(filepath.Join(dir, "dump"))
	require.NoError(t, err)

	client := resty.New().SetBaseURL(server.URL)
	DumpExchanges(client, output)

	_, err = client.R().SetQueryParam("q", "test").Get("/")
	require.NoError(t, err)
	_, err = client.R().SetFormData(map[string]string{"key": "value"}).Post("/")
	require.NoError(t, err)

	first, err := os.ReadFile(filepath.Join(dir, "dump", "1.http"))
	require.NoError(t, err)
	require.Contains(t, string(first), "GET")
	require.Contains(t, string(first), "q=test")
	require.Contains(t, string(first), "<html>hello</html>")

	second, err := os.ReadFile(filepath.Join(dir, "dump", "2.http"))
	require.NoError(t, err)
	require.Contains(t, string(second), "POST")
	require.Contains(t, string(second), "key=value")
}
