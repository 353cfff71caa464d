package indexer

import "sort"

// Source is one government website to index: a base URL plus the paths where
// scheme pages live. State is empty for central government sources.
type Source struct {
	Name      string
	BaseURL   string
	Paths     []string
	State     string
	Priority  string
	SourceCat string // "central" or "state"
}

// CentralSources lists the central government agricultural portals.
func CentralSources() []Source {
	return []Source{
		{
			Name:      "pmkisan.gov.in",
			BaseURL:   "https://pmkisan.gov.in",
			Paths:     []string{"/StaticPages/Benificiaries.aspx", "/StaticPages/Scheme_Guideline.aspx"},
			Priority:  "high",
			SourceCat: "central",
		},
		{
			Name:      "agricoop.nic.in",
			BaseURL:   "https://agricoop.nic.in",
			Paths:     []string{"/schemes-programmes", "/division/plant-protection", "/division/seeds"},
			Priority:  "high",
			SourceCat: "central",
		},
		{
			Name:      "mkisan.gov.in",
			BaseURL:   "https://mkisan.gov.in",
			Paths:     []string{"/Home/Schemes", "/Home/SubsidySchemes"},
			Priority:  "high",
			SourceCat: "central",
		},
		{
			Name:      "dahd.nic.in",
			BaseURL:   "https://dahd.nic.in",
			Paths:     []string{"/schemes", "/division/animal-husbandry"},
			Priority:  "high",
			SourceCat: "central",
		},
		{
			Name:      "pmfby.gov.in",
			BaseURL:   "https://pmfby.gov.in",
			Paths:     []string{"/page/scheme", "/page/calculate-premium"},
			Priority:  "high",
			SourceCat: "central",
		},
		{
			Name:      "krishi.gov.in",
			BaseURL:   "https://krishi.gov.in",
			Paths:     []string{"/schemes", "/subsidy"},
			Priority:  "medium",
			SourceCat: "central",
		},
		{
			Name:      "fpo.gov.in",
			BaseURL:   "https://fpo.gov.in",
			Paths:     []string{"/schemes", "/benefits"},
			Priority:  "medium",
			SourceCat: "central",
		},
		{
			Name:      "pmksy.gov.in",
			BaseURL:   "https://pmksy.gov.in",
			Paths:     []string{"/microirrigation", "/accelerated-irrigation"},
			Priority:  "high",
			SourceCat: "central",
		},
	}
}

// stateAgricultureDomains maps states to their agriculture department sites.
var stateAgricultureDomains = map[string]string{
	"andhra pradesh":   "apagrisnet.gov.in",
	"assam":            "agri.assam.gov.in",
	"bihar":            "krishi.bih.nic.in",
	"chhattisgarh":     "agriportal.cg.nic.in",
	"gujarat":          "agri.gujarat.gov.in",
	"haryana":          "agriharyana.gov.in",
	"himachal pradesh": "hpagriculture.com",
	"karnataka":        "krishi.kar.nic.in",
	"kerala":           "keralaagriculture.gov.in",
	"madhya pradesh":   "mpkrishi.mp.gov.in",
	"maharashtra":      "krishi.maharashtra.gov.in",
	"odisha":           "agriodisha.nic.in",
	"punjab":           "agri.punjab.gov.in",
	"rajasthan":        "agriculture.rajasthan.gov.in",
	"tamil nadu":       "tn.gov.in/agriculture",
	"telangana":        "agriculture.telangana.gov.in",
	"uttar pradesh":    "upagriculture.com",
	"west bengal":      "wb.gov.in/agriculture",
}

// StateSources lists the state agriculture department websites.
func StateSources() []Source {
	states := make([]string, 0, len(stateAgricultureDomains))
	for state := range stateAgricultureDomains {
		states = append(states, state)
	}
	sort.Strings(states)

	sources := make([]Source, 0, len(states))
	for _, state := range states {
		domain := stateAgricultureDomains[state]
		sources = append(sources, Source{
			Name:      domain,
			BaseURL:   "https://" + domain,
			Paths:     []string{"/schemes", "/subsidies", "/farmer-welfare", "/programs"},
			State:     state,
			Priority:  "medium",
			SourceCat: "state",
		})
	}
	return sources
}

// HighPrioritySources is the narrow subset refreshed by incremental reindex
// runs between full reindexes.
func HighPrioritySources() []Source {
	var high []Source
	for _, source := range CentralSources() {
		if source.Priority == "high" {
			high = append(high, source)
		}
	}
	return high
}

// PDFListings are pages whose anchors point at official scheme PDFs.
func PDFListings() []string {
	return []string{
		"https://pmkisan.gov.in/Documents/",
		"https://pmkisan.gov.in/Notifications/",
		"https://agricoop.nic.in/documents/",
		"https://dahd.nic.in/documents/",
		"https://pmfby.gov.in/pdf/",
		"https://pmksy.gov.in/Documents/",
		"https://krishi.gov.in/Documents/",
		"https://fpo.gov.in/documents/",
	}
}
