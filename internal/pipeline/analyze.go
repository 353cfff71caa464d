package pipeline

import (
	"strings"

	"github.com/krishimitra/krishirag/internal/extractor"
)

// QueryContext is optional caller-supplied context for a query: what the
// orchestration layer already knows about the farmer.
type QueryContext struct {
	State      string
	FarmerType string
	Location   string
}

// Analysis is the derived view of a query used to drive retrieval. It is
// computed per request and never persisted.
type Analysis struct {
	FarmerType  string
	TargetState string
	Category    string
	Intent      string
}

var indianStates = []string{
	"andhra pradesh", "assam", "bihar", "gujarat", "haryana",
	"karnataka", "kerala", "madhya pradesh", "maharashtra", "odisha",
	"punjab", "rajasthan", "tamil nadu", "telangana", "uttar pradesh",
	"west bengal",
}

var intentKeywords = []struct {
	intent   string
	keywords []string
}{
	{"application_process", []string{"apply", "application", "register", "enroll", "how to get"}},
	{"eligibility_check", []string{"eligible", "eligibility", "qualify", "criteria", "who can"}},
	{"benefit_inquiry", []string{"benefit", "amount", "how much", "subsidy", "assistance"}},
	{"documentation", []string{"document", "documents", "papers", "aadhaar", "certificate"}},
}

// Analyze derives farmer type, target state, topical category and intent
// from the query text, preferring explicit context over keyword guesses.
func Analyze(query string, qctx QueryContext) Analysis {
	lower := strings.ToLower(query)

	return Analysis{
		FarmerType:  farmerType(lower, qctx),
		TargetState: targetState(lower, qctx),
		Category:    extractor.CategoryOf(lower),
		Intent:      intentOf(lower),
	}
}

func farmerType(query string, qctx QueryContext) string {
	if qctx.FarmerType != "" {
		return qctx.FarmerType
	}
	if strings.Contains(query, "small farmer") || strings.Contains(query, "marginal farmer") ||
		strings.Contains(query, "smallholder") {
		return "small/marginal"
	}
	if strings.Contains(query, "large farmer") {
		return "large"
	}
	return "all"
}

func targetState(query string, qctx QueryContext) string {
	if qctx.State != "" {
		return strings.ToLower(qctx.State)
	}
	if qctx.Location != "" {
		location := strings.ToLower(qctx.Location)
		for _, state := range indianStates {
			if strings.Contains(location, state) {
				return state
			}
		}
	}
	for _, state := range indianStates {
		if strings.Contains(query, state) {
			return state
		}
	}
	return ""
}

func intentOf(query string) string {
	for _, entry := range intentKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(query, keyword) {
				return entry.intent
			}
		}
	}
	return "general_inquiry"
}
