package catalog

import (
	"bytes"
	"log/slog"
	"strings"
	"time"

	"updatecatalog/lib/htmlutil"
	"updatecatalog/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

const detailsLinkPrefix = "ScopedViewInline.aspx?updateid="

func parseUpdateDetails(body []byte) (*UpdateDetails, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if err := checkHiddenError(doc); err != nil {
		return nil, err
	}

	text := func(selector string) string {
		return strings.Trim(htmlutil.SelectionText(doc.Find(selector)), " \t\n")
	}

	title := textutil.JoinLines(text("#ScopedViewHandler_titleText"))
	if title == "" {
		return nil, &ParseError{Field: "title"}
	}
	id := text("#ScopedViewHandler_UpdateID")
	if id == "" {
		return nil, &ParseError{Field: "id"}
	}

	kb := ""
	if raw := textutil.LastLine(text("div#kbDiv")); raw != "" {
		kb = "KB" + raw
	}

	var lastModified time.Time
	if raw := text("#ScopedViewHandler_date"); raw != "" {
		lastModified, _ = time.Parse(updateDateFormat, raw)
	}

	return &UpdateDetails{
		ID:                 id,
		Title:              title,
		KB:                 kb,
		Classification:     textutil.LastLine(text("#classificationDiv")),
		LastModified:       lastModified,
		Size:               text("#ScopedViewHandler_size"),
		Description:        textutil.JoinLines(text("#ScopedViewHandler_desc")),
		Architecture:       optional(textutil.LastLine(text("#archDiv"))),
		SupportedProducts:  textutil.SplitItems(text("#productsDiv")),
		SupportedLanguages: textutil.SplitItems(text("#languagesDiv")),
		MSRCNumber:         optional(textutil.LastLine(text("#securityBullitenDiv"))),
		MSRCSeverity:       optional(text("#ScopedViewHandler_msrcSeverity")),
		InfoURL:            text("#moreInfoDiv a"),
		// "suportUrlDiv" is the catalog's own element id
		SupportURL:                  text("#suportUrlDiv a"),
		RebootBehavior:              RebootBehavior(text("#ScopedViewHandler_rebootBehavior")),
		RequiresUserInput:           yesNo(text("#ScopedViewHandler_userInput")),
		IsExclusiveInstall:          yesNo(text("#ScopedViewHandler_installationImpact")),
		RequiresNetworkConnectivity: yesNo(text("#ScopedViewHandler_connectivity")),
		UninstallNotes:              optional(textutil.JoinLines(text("#uninstallNotesDiv div"))),
		UninstallSteps:              optional(textutil.JoinLines(text("#uninstallStepsDiv div"))),
		Supersedes:                  parseSupersedes(doc),
		SupersededBy:                parseSupersededBy(doc),
	}, nil
}

// optional maps the catalog's "n/a" placeholder to an empty string.
func optional(s string) string {
	if s == "n/a" {
		return ""
	}
	return s
}

func yesNo(s string) bool {
	switch s {
	case "Yes":
		return true
	case "No", "":
		return false
	}
	slog.Warn("unrecognized yes/no field value", "value", s)
	return false
}

func parseSupersedes(doc *goquery.Document) []UpdateRef {
	var refs []UpdateRef
	doc.Find("div#supersedesInfo div").Each(func(_ int, sel *goquery.Selection) {
		title := textutil.JoinLines(htmlutil.SelectionText(sel))
		if title == "" {
			return
		}
		kb, _ := textutil.KBFromTitle(title)
		refs = append(refs, UpdateRef{Title: title, KB: kb})
	})
	return refs
}

func parseSupersededBy(doc *goquery.Document) []UpdateRef {
	var refs []UpdateRef
	for _, a := range htmlutil.GetAnchors(doc.Find("div#supersededbyInfo div a")) {
		if a.Name == "" {
			continue
		}
		kb, _ := textutil.KBFromTitle(a.Name)
		refs = append(refs, UpdateRef{
			ID:    strings.TrimPrefix(a.Href, detailsLinkPrefix),
			Title: a.Name,
			KB:    kb,
		})
	}
	return refs
}
