// Package matcher scores accounting contacts against free-text queries
// for the buyer/supplier pickers. Scoring is tiered: exact and prefix
// matches beat substring matches, multi-token queries let "car lo" find
// "Caroline Looney", and a Levenshtein fallback catches typos.
package matcher

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/luxfolio/dealdesk/internal/contact/domain"
)

const (
	scoreExact        = 100
	scorePrefix       = 90
	scoreWordBoundary = 80
	scoreAllTokens    = 75
	scoreSubstring    = 70
	scoreFuzzyBase    = 50
	scoreFloor        = 20

	// MinQueryLength is the trimmed length below which search returns
	// nothing at all.
	MinQueryLength = 2

	// DefaultLimit caps buyer/supplier results when the caller does not
	// supply one.
	DefaultLimit = 15
)

// Search scores every contact against the query and returns hits at or
// above the noise threshold, best first.
func Search(query string, contacts []domain.ExtendedContact) []domain.ScoredResult {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinQueryLength {
		return []domain.ScoredResult{}
	}

	results := make([]domain.ScoredResult, 0, len(contacts))
	for _, contact := range contacts {
		score, field := scoreContact(query, contact)
		if score < scoreFloor {
			continue
		}
		results = append(results, domain.ScoredResult{
			Contact:      contact,
			Score:        score,
			MatchedField: field,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// SearchBuyers filters the scored results down to buyer-classified
// contacts and truncates to limit (DefaultLimit when <= 0).
func SearchBuyers(query string, contacts []domain.ExtendedContact, limit int) []domain.ScoredResult {
	return filterAndTruncate(Search(query, contacts), limit, func(c domain.ExtendedContact) bool {
		return c.IsBuyer
	})
}

// SearchSuppliers filters the scored results down to supplier-classified
// contacts and truncates to limit (DefaultLimit when <= 0).
func SearchSuppliers(query string, contacts []domain.ExtendedContact, limit int) []domain.ScoredResult {
	return filterAndTruncate(Search(query, contacts), limit, func(c domain.ExtendedContact) bool {
		return c.IsSupplier
	})
}

func filterAndTruncate(results []domain.ScoredResult, limit int, keep func(domain.ExtendedContact) bool) []domain.ScoredResult {
	if limit <= 0 {
		limit = DefaultLimit
	}
	out := make([]domain.ScoredResult, 0, limit)
	for _, r := range results {
		if !keep(r.Contact) {
			continue
		}
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out
}

func scoreContact(query string, contact domain.ExtendedContact) (int, string) {
	best := 0
	bestField := ""

	consider := func(field, value string) {
		if value == "" {
			return
		}
		if s := ScoreField(query, value); s > best {
			best = s
			bestField = field
		}
	}

	consider("name", contact.Name)
	consider("email", contact.Email)
	consider("account_number", contact.AccountNumber)
	consider("reference", contact.Reference)
	for _, person := range contact.ContactPersons {
		consider("contact_person.first_name", person.FirstName)
		consider("contact_person.last_name", person.LastName)
		consider("contact_person.email", person.Email)
		consider("contact_person.full_name", person.FullName)
	}

	return best, bestField
}

// ScoreField rates one field value against the query, 0..100.
func ScoreField(query, value string) int {
	q := strings.ToLower(strings.TrimSpace(query))
	v := strings.ToLower(strings.TrimSpace(value))
	if q == "" || v == "" {
		return 0
	}

	if v == q {
		return scoreExact
	}
	if strings.HasPrefix(v, q) {
		return scorePrefix
	}
	if idx := strings.Index(v, q); idx >= 0 {
		if atWordBoundary(v, idx) {
			return scoreWordBoundary
		}
		// A multi-token query spread across the field outranks a plain
		// mid-word substring hit.
		if allTokensPresent(q, v) {
			return scoreAllTokens
		}
		return scoreSubstring
	}
	if allTokensPresent(q, v) {
		return scoreAllTokens
	}

	return fuzzyScore(q, v)
}

func atWordBoundary(value string, idx int) bool {
	if idx == 0 {
		return true
	}
	prev := rune(value[idx-1])
	return !isAlphanumeric(prev)
}

func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

func allTokensPresent(query, value string) bool {
	tokens := strings.Fields(query)
	if len(tokens) < 2 {
		return false
	}
	for _, token := range tokens {
		if !strings.Contains(value, token) {
			return false
		}
	}
	return true
}

// fuzzyScore compares the query against a query-sized prefix of the
// field. Distances beyond 30% of the query length score zero.
func fuzzyScore(query, value string) int {
	qRunes := []rune(query)
	vRunes := []rune(value)

	prefixLen := len(qRunes)
	if prefixLen > len(vRunes) {
		prefixLen = len(vRunes)
	}
	distance := levenshtein.ComputeDistance(query, string(vRunes[:prefixLen]))

	maxDistance := int(float64(len(qRunes)) * 0.3)
	if distance > maxDistance {
		return 0
	}
	score := scoreFuzzyBase - 10*distance
	if score < scoreFloor {
		return scoreFloor
	}
	return score
}
