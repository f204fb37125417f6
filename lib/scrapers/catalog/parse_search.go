package catalog

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"updatecatalog/lib/htmlutil"
	"updatecatalog/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// updateDateFormat accepts both "9/12/2023" and "09/12/2023".
const updateDateFormat = "1/2/2006"

type searchPage struct {
	meta      pageMeta
	updates   []UpdateSummary
	hasNext   bool
	truncated bool
}

func parseSearchPage(body []byte) (*searchPage, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if err := checkHiddenError(doc); err != nil {
		return nil, err
	}

	page := &searchPage{}
	doc.Find("div#tableContainer tr").Each(func(_ int, row *goquery.Selection) {
		id := row.AttrOr("id", "")
		if id == "" || id == "headerRow" {
			return
		}
		updateID, rowID, ok := splitRowID(id)
		if !ok {
			slog.Warn("dropping result row with unrecognized id", "row", id)
			return
		}
		summary, ok := parseResultRow(row, updateID, rowID)
		if !ok {
			return
		}
		page.updates = append(page.updates, summary)
	})

	// zero rows is a valid terminal page, no tokens to extract
	if len(page.updates) == 0 {
		return page, nil
	}

	page.hasNext = doc.Find("a#ctl00_catalogBody_nextPageLinkText").Length() > 0
	page.truncated = doc.Find("#ctl00_catalogBody_moreResults").Length() > 0

	meta, err := extractPageMeta(doc, page.hasNext)
	if err != nil {
		return nil, err
	}
	page.meta = meta
	return page, nil
}

// splitRowID breaks a result row's element id, e.g.
// "56a97db8-...-7996c78d10be_R3", into the update id and row index.
func splitRowID(id string) (updateID, rowID string, ok bool) {
	idx := strings.Index(id, "_R")
	if idx <= 0 || idx+2 >= len(id) {
		return "", "", false
	}
	return id[:idx], id[idx+2:], true
}

// Column order of the results table. Cells are addressed by id rather
// than position so a row with missing cells degrades field by field.
const (
	columnTitle = iota + 1
	columnProduct
	columnClassification
	columnLastUpdated
	columnVersion
	columnSize
)

// parseResultRow extracts one UpdateSummary. Rows without a title are
// dropped with a warning instead of failing the page; every other
// absent cell just leaves its field empty.
func parseResultRow(row *goquery.Selection, updateID, rowID string) (UpdateSummary, bool) {
	cell := func(column int) string {
		sel := row.Find(fmt.Sprintf("td[id='%s_C%d_R%s']", updateID, column, rowID))
		return strings.Trim(htmlutil.SelectionText(sel), " \t\n")
	}

	title := textutil.JoinLines(cell(columnTitle))
	if title == "" {
		slog.Warn("dropping result row without a title", "update_id", updateID)
		return UpdateSummary{}, false
	}
	kb, _ := textutil.KBFromTitle(title)

	var lastModified time.Time
	if raw := cell(columnLastUpdated); raw != "" {
		lastModified, _ = time.Parse(updateDateFormat, raw)
	}

	version := cell(columnVersion)
	if version == "n/a" {
		version = ""
	}

	return UpdateSummary{
		ID:             updateID,
		Title:          title,
		KB:             kb,
		Product:        cell(columnProduct),
		Classification: cell(columnClassification),
		LastModified:   lastModified,
		Version:        version,
		// the display string is on the first line, the server's exact
		// byte count sits in a hidden node below it
		Size: textutil.FirstLine(cell(columnSize)),
	}, true
}

// extractPageMeta pulls the hidden postback fields out of a response.
// Only __VIEWSTATE is unconditionally required; a page without it
// cannot continue the session.
func extractPageMeta(doc *goquery.Document, hasNext bool) (pageMeta, error) {
	viewState, ok := hiddenInput(doc, "__VIEWSTATE")
	if !ok {
		return pageMeta{}, &ProtocolError{Err: ErrTokensMissing}
	}
	meta := pageMeta{
		viewState: viewState,
	}
	meta.eventArgument, _ = hiddenInput(doc, "__EVENTARGUMENT")
	meta.eventValidation, _ = hiddenInput(doc, "__EVENTVALIDATION")
	meta.viewStateGenerator, _ = hiddenInput(doc, "__VIEWSTATEGENERATOR")
	if hasNext {
		meta.eventTarget = nextPageEventTarget
	}
	return meta, nil
}

func hiddenInput(doc *goquery.Document, name string) (string, bool) {
	return doc.Find("input#" + name).Attr("value")
}

// checkHiddenError detects the catalog's habit of returning server
// errors as a 200 page carrying "[Error number: XXXXXXXX]".
func checkHiddenError(doc *goquery.Document) error {
	sel := doc.Find("div#errorPageDisplayedError")
	if sel.Length() == 0 {
		return nil
	}
	code := strings.Trim(htmlutil.SelectionText(sel), " \t\n")
	code = strings.TrimPrefix(code, "[Error number: ")
	code = strings.TrimSuffix(code, "]")
	return &CatalogError{Code: code}
}
