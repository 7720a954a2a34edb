package patterns

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"

	"wisdomwealth-lab/internal/domain/models"
	"wisdomwealth-lab/pkg/logger"
)

// Pattern is one known scam narrative with its advisory metadata.
type Pattern struct {
	ID            string           `json:"id"`
	Text          string           `json:"text"`
	Category      string           `json:"category"`
	RiskLevel     models.RiskLevel `json:"risk_level"`
	Concern       string           `json:"concern"`
	UserSubmitted bool             `json:"user_submitted"`
	CreatedAt     time.Time        `json:"created_at"`
}

// Match pairs a pattern with its similarity to the queried text.
type Match struct {
	Pattern    Pattern `json:"pattern"`
	Similarity float64 `json:"similarity"`
}

// Enhancement is the fraud-analysis supplement derived from pattern matches.
// SuggestedRisk only ever raises the consumer's verdict, never lowers it.
type Enhancement struct {
	SuggestedRisk   models.RiskLevel `json:"suggested_risk_level"`
	Concerns        []string         `json:"concerns"`
	MatchConfidence float64          `json:"match_confidence"`
}

// Store is an in-process similarity index over known scam narratives.
// Similarity is cosine distance over normalized term-frequency vectors,
// which is enough to separate the seeded scripts at the 0.7 threshold.
type Store struct {
	mu        sync.RWMutex
	logger    *logger.Logger
	patterns  []Pattern
	vectors   []map[string]float64
	threshold float64
	topK      int
}

// NewStore creates a pattern store seeded with the default scam corpus.
func NewStore(threshold float64, topK int, log *logger.Logger) *Store {
	if threshold <= 0 {
		threshold = 0.7
	}
	if topK <= 0 {
		topK = 2
	}

	s := &Store{
		logger:    log.WithComponent("pattern-store"),
		threshold: threshold,
		topK:      topK,
	}
	for _, p := range seedPatterns() {
		s.add(p)
	}
	s.logger.Info().Int("patterns", len(s.patterns)).Msg("seeded scam pattern corpus")
	return s
}

// Add inserts an operator-submitted pattern and returns its id.
func (s *Store) Add(text, category string, risk models.RiskLevel, concern string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := Pattern{
		ID:            uuid.New().String(),
		Text:          text,
		Category:      category,
		RiskLevel:     risk,
		Concern:       concern,
		UserSubmitted: true,
		CreatedAt:     time.Now().UTC(),
	}
	s.add(p)
	return p.ID
}

func (s *Store) add(p Pattern) {
	s.patterns = append(s.patterns, p)
	s.vectors = append(s.vectors, termVector(p.Text))
}

// Query returns the k most similar patterns to the given text, best first.
func (s *Store) Query(text string, k int) []Match {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if k <= 0 {
		k = s.topK
	}

	query := termVector(text)
	matches := make([]Match, 0, len(s.patterns))
	for i, p := range s.patterns {
		matches = append(matches, Match{
			Pattern:    p,
			Similarity: cosine(query, s.vectors[i]),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches
}

// Enhance looks up similar known scams and derives a risk suggestion plus
// up to two caution notes. Only matches above the similarity threshold
// contribute; the suggestion defaults to LOW, which consumers treat as
// "no upgrade". Returns nil when the corpus is empty.
func (s *Store) Enhance(text string) *Enhancement {
	matches := s.Query(text, s.topK)
	if len(matches) == 0 {
		return nil
	}

	suggested := models.RiskLow
	var concerns []string
	var confidence float64

	for _, m := range matches {
		if m.Similarity > confidence {
			confidence = m.Similarity
		}
		if m.Similarity <= s.threshold {
			continue
		}
		suggested = models.MaxRisk(suggested, m.Pattern.RiskLevel)
		if m.Pattern.Concern != "" {
			concerns = append(concerns, m.Pattern.Concern)
		}
	}

	if len(concerns) > 2 {
		concerns = concerns[:2]
	}

	return &Enhancement{
		SuggestedRisk:   suggested,
		Concerns:        concerns,
		MatchConfidence: confidence,
	}
}

// Count returns the number of indexed patterns.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.patterns)
}

// Ready reports whether the corpus is usable.
func (s *Store) Ready() bool {
	return s.Count() > 0
}

// termVector builds an L2-normalized term-frequency vector.
func termVector(text string) map[string]float64 {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	vec := make(map[string]float64, len(tokens))
	for _, t := range tokens {
		vec[t]++
	}

	var norm float64
	for _, f := range vec {
		norm += f * f
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for t := range vec {
		vec[t] /= norm
	}
	return vec
}

// cosine computes the dot product of two normalized vectors.
func cosine(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for t, f := range a {
		dot += f * b[t]
	}
	return dot
}
