package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/krishimitra/krishirag/internal/extractor"
	"github.com/krishimitra/krishirag/internal/indexer"
	"github.com/krishimitra/krishirag/internal/store"
)

const (
	maxStructuredResults = 5
	maxDocumentResults   = 5
	docPreviewChars      = 300
	retrievalTopK        = 10
)

// SchemeView is one scheme-shaped result in a query response, whether it
// came from the structured scheme store or was synthesized from a raw
// document.
type SchemeView struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Eligibility      []string `json:"eligibility"`
	Benefits         []string `json:"benefits"`
	SubsidyAmount    string   `json:"subsidy_amount,omitempty"`
	ApplicationLinks []string `json:"application_links"`
	State            string   `json:"state,omitempty"`
	Category         string   `json:"category"`
	Status           string   `json:"status"`
	RelevanceScore   float64  `json:"relevance_score"`
	DataSource       string   `json:"data_source"`
}

// Response is the full answer to a farmer query. An empty result set is a
// normal outcome carried as Success=false with suggestions, never an
// error.
type Response struct {
	Success               bool         `json:"success"`
	Message               string       `json:"message,omitempty"`
	Error                 string       `json:"error,omitempty"`
	Schemes               []SchemeView `json:"schemes"`
	Confidence            float64      `json:"confidence"`
	TotalFound            int          `json:"total_found"`
	FarmerRecommendations []string     `json:"farmer_recommendations,omitempty"`
	Suggestions           []string     `json:"suggestions,omitempty"`
}

// IndexReport summarizes one indexing run.
type IndexReport struct {
	Success         bool `json:"success"`
	WebsitesIndexed int  `json:"websites_indexed"`
	DocumentsStored int  `json:"documents_stored"`
	SchemesStored   int  `json:"schemes_stored"`
}

// Pipeline answers scheme queries against the store and drives indexing
// runs that feed it.
type Pipeline struct {
	store   *store.Store
	web     *indexer.WebsiteIndexer
	pdfs    *indexer.PDFProcessor
	chunker *extractor.Chunker
	logger  *log.Logger
}

func New(st *store.Store, web *indexer.WebsiteIndexer, pdfs *indexer.PDFProcessor, chunker *extractor.Chunker, logger *log.Logger) *Pipeline {
	return &Pipeline{
		store:   st,
		web:     web,
		pdfs:    pdfs,
		chunker: chunker,
		logger:  logger,
	}
}

// ProcessQuery analyzes the query, retrieves from both stores, and merges
// the results into a ranked scheme list with a confidence score.
func (p *Pipeline) ProcessQuery(query string, qctx QueryContext) Response {
	analysis := Analyze(query, qctx)

	filters := make(map[string]string)
	if analysis.TargetState != "" {
		filters["state"] = analysis.TargetState
	}
	if analysis.Category != "general" {
		filters["category"] = analysis.Category
	}

	docs, err := p.store.SearchSimilar(query, retrievalTopK, filters)
	if err != nil {
		return failureResponse(err)
	}

	schemeFilters := make(map[string]string, len(filters)+1)
	for k, v := range filters {
		schemeFilters[k] = v
	}
	schemeFilters["status"] = "active"

	schemes, err := p.store.SearchSchemes(query, schemeFilters)
	if err != nil {
		return failureResponse(err)
	}

	merged := synthesize(schemes, docs)

	if len(merged) == 0 {
		return Response{
			Success:     false,
			Message:     "No matching schemes found",
			Schemes:     []SchemeView{},
			Confidence:  0.0,
			Suggestions: suggestions(analysis),
		}
	}

	confidence := maxScore(merged) * 0.9
	if confidence > 1.0 {
		confidence = 1.0
	}

	return Response{
		Success:               true,
		Message:               fmt.Sprintf("Found %d schemes matching your query", len(merged)),
		Schemes:               merged,
		Confidence:            confidence,
		TotalFound:            len(merged),
		FarmerRecommendations: recommendations(analysis),
	}
}

func failureResponse(err error) Response {
	return Response{
		Success: false,
		Error:   fmt.Sprintf("Failed to process query: %v", err),
		Schemes: []SchemeView{},
	}
}

// synthesize merges structured scheme hits and document hits into one
// list. Structured results go first and win deduplication conflicts; the
// dedup key is the lowercased scheme name.
func synthesize(schemes []store.SchemeResult, docs []store.SearchResult) []SchemeView {
	var merged []SchemeView
	seen := make(map[string]bool)

	for _, result := range schemes {
		if len(merged) >= maxStructuredResults {
			break
		}
		key := strings.ToLower(result.Name)
		if seen[key] {
			continue
		}
		seen[key] = true

		merged = append(merged, SchemeView{
			Name:             result.Name,
			Description:      result.Description,
			Eligibility:      result.Eligibility,
			Benefits:         result.Benefits,
			SubsidyAmount:    result.SubsidyAmount,
			ApplicationLinks: result.ApplicationLinks,
			State:            result.State,
			Category:         result.Category,
			Status:           result.Status,
			RelevanceScore:   result.RelevanceScore,
			DataSource:       "structured_schemes",
		})
	}

	added := 0
	for _, doc := range docs {
		if added >= maxDocumentResults {
			break
		}

		name := doc.Metadata.SchemeName
		if name == "" {
			// Pages with no extractable scheme name are noise for a
			// scheme-shaped answer; leave them out entirely.
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true

		merged = append(merged, documentView(name, doc))
		added++
	}

	return merged
}

func documentView(name string, doc store.SearchResult) SchemeView {
	preview := extractor.TruncateText(doc.Content, docPreviewChars)

	var links []string
	if doc.Metadata.URL != "" {
		links = []string{doc.Metadata.URL}
	}

	view := SchemeView{
		Name:             name,
		Description:      preview,
		Eligibility:      extractor.ExtractList(doc.Content, extractor.ListEligibility),
		Benefits:         extractor.ExtractList(doc.Content, extractor.ListBenefits),
		ApplicationLinks: links,
		State:            doc.Metadata.State,
		Category:         doc.Metadata.Category,
		Status:           "active",
		RelevanceScore:   doc.Similarity,
		DataSource:       "documents",
	}
	if amount, ok := extractor.ExtractField(doc.Content, extractor.FieldSubsidyAmount); ok {
		view.SubsidyAmount = amount
	}
	return view
}

func maxScore(views []SchemeView) float64 {
	best := 0.0
	for _, view := range views {
		if view.RelevanceScore > best {
			best = view.RelevanceScore
		}
	}
	return best
}

func suggestions(analysis Analysis) []string {
	var tips []string
	if analysis.TargetState == "" {
		tips = append(tips, "Mention your state to find region-specific schemes")
	}
	tips = append(tips,
		"Try more specific terms like 'drip irrigation subsidy' or 'crop insurance'",
		"Contact your local agriculture extension office for personalized guidance",
	)
	return tips
}

func recommendations(analysis Analysis) []string {
	var tips []string

	if analysis.FarmerType == "small/marginal" {
		tips = append(tips, "Small and marginal farmers qualify for higher subsidy rates; joining an FPO can improve access further")
	}
	if analysis.Category == "irrigation" {
		tips = append(tips, "Drip and sprinkler systems deliver water savings of 30-50% over flood irrigation; apply before the monsoon season")
	}

	tips = append(tips,
		"Keep Aadhaar, land records and bank details ready before applying",
		"Check application deadlines on the official scheme portal",
		"Your nearest Krishi Vigyan Kendra can help with the application process",
	)
	return tips
}

// IndexGovernmentSources runs the website and PDF collectors, normalizes
// everything into documents and schemes, and stores them.
func (p *Pipeline) IndexGovernmentSources(ctx context.Context) (IndexReport, error) {
	sources := append(indexer.CentralSources(), indexer.StateSources()...)
	return p.indexSources(ctx, sources, indexer.PDFListings())
}

// IndexHighPrioritySources indexes only the high-priority central
// portals. Used by incremental reindex runs.
func (p *Pipeline) IndexHighPrioritySources(ctx context.Context) (IndexReport, error) {
	return p.indexSources(ctx, indexer.HighPrioritySources(), nil)
}

func (p *Pipeline) indexSources(ctx context.Context, sources []indexer.Source, pdfListings []string) (IndexReport, error) {
	records, err := p.web.Collect(ctx, sources)
	if err != nil {
		return IndexReport{}, fmt.Errorf("website collection failed: %w", err)
	}
	websites := len(records)

	if len(pdfListings) > 0 {
		pdfRecords, err := p.pdfs.Collect(ctx, pdfListings)
		if err != nil {
			return IndexReport{}, fmt.Errorf("pdf collection failed: %w", err)
		}
		records = append(records, pdfRecords...)
	}

	normalized := indexer.Normalize(records, p.chunker)

	if err := p.store.StoreDocuments(normalized.Documents); err != nil {
		return IndexReport{}, fmt.Errorf("failed to store documents: %w", err)
	}

	stored := 0
	for _, scheme := range normalized.Schemes {
		if err := p.store.StoreScheme(scheme); err != nil {
			p.logger.Printf("failed to store scheme %q: %v", scheme.Name, err)
			continue
		}
		stored++
	}

	return IndexReport{
		Success:         true,
		WebsitesIndexed: websites,
		DocumentsStored: len(normalized.Documents),
		SchemesStored:   stored,
	}, nil
}

// SystemStats reports corpus-level counts.
func (p *Pipeline) SystemStats() (store.Stats, error) {
	return p.store.Stats()
}
