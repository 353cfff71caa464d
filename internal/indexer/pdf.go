package indexer

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"

	"github.com/krishimitra/krishirag/internal/extractor"
)

const maxPDFsPerListing = 10

// PDFProcessor discovers scheme guideline PDFs linked from listing pages
// and extracts their text.
type PDFProcessor struct {
	fetcher *Fetcher
	logger  *log.Logger
}

func NewPDFProcessor(fetcher *Fetcher, logger *log.Logger) *PDFProcessor {
	return &PDFProcessor{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Collect walks the listing URLs, follows PDF links found on each, and
// returns records for the documents that yielded usable text.
func (p *PDFProcessor) Collect(ctx context.Context, listings []string) ([]Record, error) {
	var records []Record

	for _, listing := range listings {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		links, err := p.discoverPDFs(ctx, listing)
		if err != nil {
			p.logger.Printf("skipping listing %s: %v", listing, err)
			continue
		}

		for _, link := range links {
			record, err := p.processPDF(ctx, link)
			if err != nil {
				p.logger.Printf("skipping pdf %s: %v", link, err)
				continue
			}
			records = append(records, *record)
		}
	}

	return records, nil
}

func (p *PDFProcessor) discoverPDFs(ctx context.Context, listing string) ([]string, error) {
	body, err := p.fetcher.Fetch(ctx, listing)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	seen := make(map[string]bool)
	var links []string

	doc.Find("a[href]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if !ok || !strings.HasSuffix(strings.ToLower(href), ".pdf") {
			return true
		}

		absolute := resolveLink(listing, href)
		if seen[absolute] {
			return true
		}
		seen[absolute] = true
		links = append(links, absolute)

		return len(links) < maxPDFsPerListing
	})

	return links, nil
}

func (p *PDFProcessor) processPDF(ctx context.Context, pdfURL string) (*Record, error) {
	body, err := p.fetcher.Fetch(ctx, pdfURL)
	if err != nil {
		return nil, err
	}

	text, err := extractPDFText(body)
	if err != nil {
		return nil, err
	}
	if len(text) < 100 {
		return nil, fmt.Errorf("insufficient text (%d chars)", len(text))
	}

	record := &Record{
		URL:        pdfURL,
		Title:      pdfTitle(pdfURL),
		Content:    text,
		SourceCat:  "central",
		SourceType: "pdf",
	}

	if name, ok := extractor.ExtractField(text, extractor.FieldSchemeName); ok {
		record.SchemeName = name
	}
	if amount, ok := extractor.ExtractField(text, extractor.FieldSubsidyAmount); ok {
		record.SubsidyAmount = amount
	}
	record.Eligibility = extractor.ExtractList(text, extractor.ListEligibility)
	record.Benefits = extractor.ExtractList(text, extractor.ListBenefits)
	record.DocumentsRequired = extractor.ExtractList(text, extractor.ListDocumentsRequired)

	return record, nil
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("failed to read text: %w", err)
	}

	text := strings.TrimSpace(buf.String())
	return strings.Join(strings.Fields(text), " "), nil
}

// pdfTitle derives a readable title from the file name of the URL.
func pdfTitle(pdfURL string) string {
	name := path.Base(pdfURL)
	name = strings.TrimSuffix(name, path.Ext(name))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return strings.TrimSpace(name)
}
