package matching

import (
	"sort"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Tier identifies which comparison stage produced a match. Stages run in
// order and the first hit wins.
type Tier string

const (
	TierExact      Tier = "exact"
	TierNormalized Tier = "normalized"
	TierFuzzy      Tier = "fuzzy"
	TierKeyword    Tier = "keyword"
	TierNone       Tier = "none"
)

const (
	fuzzyThreshold   = 0.8
	keywordThreshold = 0.5

	fuzzyWeight   = 0.8
	keywordWeight = 0.6
)

type Candidate struct {
	ID   uuid.UUID
	Name string
}

type MatchResult struct {
	Matched    bool
	AreaID     uuid.UUID
	AreaName   string
	Confidence float64
	Tier       Tier
}

type Suggestion struct {
	AreaID   uuid.UUID
	AreaName string
	Score    float64
}

// DefaultSynonyms expands common business-area shorthand before keyword
// comparison. Keys and values are normalized forms.
var DefaultSynonyms = map[string][]string{
	"ADMIN":          {"ADMINISTRACION", "ADMINISTRATIVO"},
	"ADMINISTRACION": {"ADMIN", "GESTION"},
	"GESTION":        {"ADMINISTRACION", "MANAGEMENT"},
	"MANAGEMENT":     {"GESTION", "ADMINISTRACION"},
	"COMERCIAL":      {"VENTAS", "SALES"},
	"VENTAS":         {"COMERCIAL", "SALES"},
	"SALES":          {"VENTAS", "COMERCIAL"},
	"RRHH":           {"RECURSOS", "HUMANOS", "PERSONAL"},
	"PERSONAL":       {"RRHH", "HUMANOS"},
	"FINANZAS":       {"FINANCIERO", "FINANCE"},
	"FINANCE":        {"FINANZAS", "FINANCIERO"},
	"PRODUCTO":       {"PRODUCT"},
	"PRODUCT":        {"PRODUCTO"},
	"TECNOLOGIA":     {"SISTEMAS", "TECNOLOGIAS"},
	"SISTEMAS":       {"TECNOLOGIA"},
	"OPERACIONES":    {"OPERACION", "OPS"},
	"MARKETING":      {"MERCADEO"},
	"MERCADEO":       {"MARKETING"},
}

// Matcher resolves free-text area labels against the tenant's known areas.
// It is stateless and safe for concurrent use.
type Matcher struct {
	synonyms map[string][]string
}

type MatcherOption func(*Matcher)

// WithSynonyms replaces the default synonym table. Keys and values must be
// normalized forms.
func WithSynonyms(table map[string][]string) MatcherOption {
	return func(m *Matcher) {
		m.synonyms = table
	}
}

func NewMatcher(opts ...MatcherOption) *Matcher {
	m := &Matcher{
		synonyms: DefaultSynonyms,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Resolve runs the comparison tiers in order against every candidate and
// returns the first tier that produces a hit. An unmatched result carries
// zero confidence and TierNone.
func (m *Matcher) Resolve(label string, candidates []Candidate) MatchResult {
	if label == "" || len(candidates) == 0 {
		return MatchResult{Tier: TierNone}
	}

	for _, c := range candidates {
		if c.Name == label {
			return MatchResult{
				Matched:    true,
				AreaID:     c.ID,
				AreaName:   c.Name,
				Confidence: 1.0,
				Tier:       TierExact,
			}
		}
	}

	normLabel := Normalize(label)
	if normLabel == "" {
		return MatchResult{Tier: TierNone}
	}
	for _, c := range candidates {
		if Normalize(c.Name) == normLabel {
			return MatchResult{
				Matched:    true,
				AreaID:     c.ID,
				AreaName:   c.Name,
				Confidence: 0.95,
				Tier:       TierNormalized,
			}
		}
	}

	if best, sim := bestSimilarity(normLabel, candidates); sim >= fuzzyThreshold {
		return MatchResult{
			Matched:    true,
			AreaID:     best.ID,
			AreaName:   best.Name,
			Confidence: sim * fuzzyWeight,
			Tier:       TierFuzzy,
		}
	}

	if best, ratio := m.bestKeywordOverlap(normLabel, candidates); ratio >= keywordThreshold {
		return MatchResult{
			Matched:    true,
			AreaID:     best.ID,
			AreaName:   best.Name,
			Confidence: ratio * keywordWeight,
			Tier:       TierKeyword,
		}
	}

	return MatchResult{Tier: TierNone}
}

// Suggest ranks candidates by normalized-form similarity and returns the top
// n, best first. Used to annotate unmatched labels in logs and row outcomes.
func (m *Matcher) Suggest(label string, candidates []Candidate, n int) []Suggestion {
	normLabel := Normalize(label)
	out := make([]Suggestion, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, Suggestion{
			AreaID:   c.ID,
			AreaName: c.Name,
			Score:    similarity(normLabel, Normalize(c.Name)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func bestSimilarity(normLabel string, candidates []Candidate) (Candidate, float64) {
	var best Candidate
	bestSim := -1.0
	for _, c := range candidates {
		if sim := similarity(normLabel, Normalize(c.Name)); sim > bestSim {
			best = c
			bestSim = sim
		}
	}
	return best, bestSim
}

// bestKeywordOverlap scores candidates by shared keyword ratio. A token
// shared verbatim counts full, one reached only through the synonym table
// counts half, so "Admin" resolves to "Administración" with lower
// confidence than a literal word overlap of the same size.
func (m *Matcher) bestKeywordOverlap(normLabel string, candidates []Candidate) (Candidate, float64) {
	labelTokens := Tokens(normLabel)
	if len(labelTokens) == 0 {
		return Candidate{}, 0
	}
	direct := make(map[string]bool, len(labelTokens))
	viaSynonym := make(map[string]bool)
	for _, t := range labelTokens {
		direct[t] = true
		for _, syn := range m.synonyms[t] {
			viaSynonym[syn] = true
		}
	}

	var best Candidate
	bestRatio := 0.0
	for _, c := range candidates {
		candTokens := Tokens(Normalize(c.Name))
		if len(candTokens) == 0 {
			continue
		}
		shared := 0.0
		for _, t := range candTokens {
			switch {
			case direct[t]:
				shared++
			case viaSynonym[t]:
				shared += 0.5
			}
		}
		denom := len(direct)
		if len(candTokens) > denom {
			denom = len(candTokens)
		}
		if ratio := shared / float64(denom); ratio > bestRatio {
			best = c
			bestRatio = ratio
		}
	}
	return best, bestRatio
}

func similarity(a, b string) float64 {
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 0
	}
	dist := fuzzy.LevenshteinDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}
