package restyutil

import (
	"strconv"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

// Output receives one formatted HTTP exchange per completed request.
type Output interface {
	Write(id string, contents string)
}

// DumpExchanges records every request/response pair a client makes.
// Exchange ids are sequential per client. A nil output makes this a
// no-op, so callers can pass their dump target through unconditionally.
//
// The recorded pages double as raw material for refreshing the parser
// fixtures when the catalog changes its markup.
func DumpExchanges(client *resty.Client, output Output) {
	if output == nil {
		return
	}

	var counter uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := strconv.FormatUint(atomic.AddUint64(&counter, 1), 10)
		output.Write(id, formatExchange(res))
		return nil
	})
}
