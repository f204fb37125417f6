package catalog

import (
	"time"

	"updatecatalog/lib/textutil"
)

// UpdateSummary is a single row of a catalog search results table.
type UpdateSummary struct {
	// ID is the catalog's stable update identifier (a UUID).
	ID             string
	Title          string
	KB             string
	Product        string
	Classification string
	LastModified   time.Time
	// Version is empty when the catalog shows "n/a".
	Version string
	// Size is the catalog's display string, e.g. "168.7 MB".
	Size string
}

// SizeBytes parses the display size into a byte count. The second
// return is false when the size string is not recognizable.
func (u UpdateSummary) SizeBytes() (int64, bool) {
	return textutil.ParseSize(u.Size)
}

// Page is one page of search results in the catalog's display order.
type Page struct {
	Updates []UpdateSummary
	// Truncated reports that the server refused to paginate the full
	// result set and asked for a narrower query.
	Truncated bool
}

func (p *Page) Len() int {
	return len(p.Updates)
}

// RebootBehavior is the catalog's reboot requirement for an update.
// Unrecognized server strings are preserved as-is.
type RebootBehavior string

const (
	RebootRequired      RebootBehavior = "Required"
	RebootCanRequest    RebootBehavior = "Can request restart"
	RebootRecommended   RebootBehavior = "Recommended"
	RebootNotRequired   RebootBehavior = "Not required"
	RebootNeverRestarts RebootBehavior = "Never restarts"
)

// UpdateRef points at another update from a supersedence list. ID is
// empty in "supersedes" entries since the catalog renders those
// without links.
type UpdateRef struct {
	ID    string
	Title string
	KB    string
}

// UpdateDetails is the full record behind a catalog detail page.
// Optional fields are empty when the page omits them or shows "n/a".
type UpdateDetails struct {
	ID             string
	Title          string
	KB             string
	Classification string
	LastModified   time.Time
	Size           string
	Description    string
	Architecture   string

	SupportedProducts  []string
	SupportedLanguages []string

	MSRCNumber   string
	MSRCSeverity string

	InfoURL    string
	SupportURL string

	RebootBehavior              RebootBehavior
	RequiresUserInput           bool
	IsExclusiveInstall          bool
	RequiresNetworkConnectivity bool

	UninstallNotes string
	UninstallSteps string

	// Supersedence lists preserve the server's order and any
	// duplicates it sends.
	Supersedes   []UpdateRef
	SupersededBy []UpdateRef
}

func (u UpdateDetails) SizeBytes() (int64, bool) {
	return textutil.ParseSize(u.Size)
}
