package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wisdomwealth-lab/internal/domain/models"
	"wisdomwealth-lab/pkg/logger"
)

func newTestStore() *Store {
	return NewStore(0.7, 2, logger.NewDefault())
}

func TestStoreSeedsCorpus(t *testing.T) {
	s := newTestStore()

	assert.Equal(t, 8, s.Count())
	assert.True(t, s.Ready())
}

func TestStoreQueryRanksBySimilarity(t *testing.T) {
	s := newTestStore()

	matches := s.Query("This is the IRS calling about your tax debt. You must pay immediately or face arrest.", 3)

	require.Len(t, matches, 3)
	assert.Equal(t, "government_impersonation", matches[0].Pattern.Category)
	assert.Greater(t, matches[0].Similarity, 0.9)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Similarity, matches[i].Similarity)
	}
}

func TestStoreEnhanceUpgradesOnCloseMatch(t *testing.T) {
	s := newTestStore()

	enh := s.Enhance("This is the IRS calling about your tax debt. You must pay immediately or face arrest.")

	require.NotNil(t, enh)
	assert.Equal(t, models.RiskHigh, enh.SuggestedRisk)
	assert.Greater(t, enh.MatchConfidence, 0.7)
	require.NotEmpty(t, enh.Concerns)
	assert.Contains(t, enh.Concerns[0], "Government agencies never threaten arrest")
	assert.LessOrEqual(t, len(enh.Concerns), 2)
}

func TestStoreEnhanceNoUpgradeOnWeakMatch(t *testing.T) {
	s := newTestStore()

	enh := s.Enhance("what a lovely garden you have this spring")

	require.NotNil(t, enh)
	// LOW means "no upgrade" to consumers.
	assert.Equal(t, models.RiskLow, enh.SuggestedRisk)
	assert.Empty(t, enh.Concerns)
}

func TestStoreAddUserPattern(t *testing.T) {
	s := newTestStore()

	id := s.Add(
		"Your utility service will be disconnected today unless you pay with a prepaid card.",
		"utility_scam", models.RiskHigh,
		"Utility companies never demand prepaid card payments",
	)

	require.NotEmpty(t, id)
	assert.Equal(t, 9, s.Count())

	matches := s.Query("utility service disconnected today unless you pay with a prepaid card", 1)
	require.Len(t, matches, 1)
	assert.Equal(t, "utility_scam", matches[0].Pattern.Category)
	assert.True(t, matches[0].Pattern.UserSubmitted)
}

func TestTermVectorNormalized(t *testing.T) {
	vec := termVector("scam scam alert")

	var norm float64
	for _, f := range vec {
		norm += f * f
	}
	assert.InDelta(t, 1.0, norm, 1e-9)
	assert.InDelta(t, 1.0, cosine(vec, vec), 1e-9)
}

func TestCosineDisjointTerms(t *testing.T) {
	a := termVector("alpha beta gamma")
	b := termVector("delta epsilon zeta")

	assert.Zero(t, cosine(a, b))
}
