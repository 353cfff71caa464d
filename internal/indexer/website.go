package indexer

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/krishimitra/krishirag/internal/extractor"
)

// Record is one fetched page, with scheme fields pulled out of the raw
// text. Records feed normalization, which turns them into stored
// documents and structured schemes.
type Record struct {
	URL               string
	Title             string
	Content           string
	SchemeName        string
	SubsidyAmount     string
	Eligibility       []string
	Benefits          []string
	DocumentsRequired []string
	ApplicationLink   string
	State             string
	SourceCat         string
	SourceType        string
}

// WebsiteIndexer fetches scheme pages from government portals and
// extracts their content.
type WebsiteIndexer struct {
	fetcher *Fetcher
	logger  *log.Logger
}

func NewWebsiteIndexer(fetcher *Fetcher, logger *log.Logger) *WebsiteIndexer {
	return &WebsiteIndexer{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Collect fetches every path of every source and returns the records it
// could extract. A failing page is logged and skipped; one broken portal
// must not sink a reindex run.
func (w *WebsiteIndexer) Collect(ctx context.Context, sources []Source) ([]Record, error) {
	var records []Record

	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		for _, path := range source.Paths {
			pageURL := source.BaseURL + path

			record, err := w.collectPage(ctx, pageURL, source)
			if err != nil {
				w.logger.Printf("skipping %s: %v", pageURL, err)
				continue
			}
			records = append(records, *record)
		}
	}

	return records, nil
}

func (w *WebsiteIndexer) collectPage(ctx context.Context, pageURL string, source Source) (*Record, error) {
	body, err := w.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	content := extractContent(doc)
	if len(content) < 100 {
		return nil, fmt.Errorf("insufficient content (%d chars)", len(content))
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = source.Name
	}

	record := &Record{
		URL:        pageURL,
		Title:      title,
		Content:    content,
		State:      source.State,
		SourceCat:  source.SourceCat,
		SourceType: "website",
	}

	if name, ok := extractor.ExtractField(content, extractor.FieldSchemeName); ok {
		record.SchemeName = name
	}
	if amount, ok := extractor.ExtractField(content, extractor.FieldSubsidyAmount); ok {
		record.SubsidyAmount = amount
	}
	record.Eligibility = extractor.ExtractList(content, extractor.ListEligibility)
	record.Benefits = extractor.ExtractList(content, extractor.ListBenefits)
	record.DocumentsRequired = extractor.ExtractList(content, extractor.ListDocumentsRequired)

	if link, ok := extractor.ApplicationLink(doc); ok {
		record.ApplicationLink = resolveLink(pageURL, link)
	}

	return record, nil
}

// extractContent pulls the readable text out of a page, preferring
// semantic containers over the raw body.
func extractContent(doc *goquery.Document) string {
	contentDoc := doc.Clone()
	contentDoc.Find("script, style, nav, header, footer, aside, iframe, noscript, form, button").Remove()

	var content string

	if article := contentDoc.Find("article").First(); article.Length() > 0 {
		content = article.Text()
	}

	if len(strings.TrimSpace(content)) < 100 {
		if main := contentDoc.Find("main").First(); main.Length() > 0 {
			content = main.Text()
		}
	}

	if len(strings.TrimSpace(content)) < 100 {
		contentSelectors := []string{
			"#content", ".content", "#main-content", ".main-content",
			".scheme-details", ".scheme-content", ".page-content",
			"[role='main']",
		}

		for _, selector := range contentSelectors {
			if elem := contentDoc.Find(selector).First(); elem.Length() > 0 {
				text := elem.Text()
				if len(strings.TrimSpace(text)) > len(strings.TrimSpace(content)) {
					content = text
				}
			}
		}
	}

	if len(strings.TrimSpace(content)) < 100 {
		var paragraphs []string
		contentDoc.Find("p, li").Each(func(i int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if len(text) > 20 {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) > 0 {
			content = strings.Join(paragraphs, ". ")
		}
	}

	if len(strings.TrimSpace(content)) < 100 {
		content = contentDoc.Find("body").Text()
	}

	content = strings.TrimSpace(content)
	content = strings.Join(strings.Fields(content), " ")

	if len(content) > 1000000 {
		content = content[:1000000]
	}

	return content
}

func resolveLink(base, href string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	relURL, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(relURL).String()
}
