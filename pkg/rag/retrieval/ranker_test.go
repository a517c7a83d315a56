package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerms(t *testing.T) {
	assert.Equal(t,
		[]string{"summary", "q3", "report"},
		Terms("What is the summary of the Q3 report?"),
	)
	assert.Empty(t, Terms("  a  I  "))
}

func TestRankPicksMatchingChunks(t *testing.T) {
	chunks := []string{
		"Introduction to the company and its history.",
		"Revenue grew 20 percent in the third quarter.",
		"The office cat is named Biscuit.",
		"Quarterly revenue was driven by subscriptions.",
	}

	top := Rank("How did revenue change?", chunks, 2)
	require.Len(t, top, 2)
	assert.Equal(t, 1, top[0].Index)
	assert.Equal(t, 3, top[1].Index)
	assert.Greater(t, top[0].Score, 0.0)
}

func TestRankRarerTermsWeighMore(t *testing.T) {
	chunks := []string{
		"report report",
		"report biscuit",
		"report",
	}

	top := Rank("biscuit report", chunks, 1)
	require.Len(t, top, 1)
	assert.Equal(t, 1, top[0].Index)
}

func TestRankWithoutMatchesKeepsDocumentOrder(t *testing.T) {
	chunks := []string{"alpha", "beta", "gamma"}

	top := Rank("zeta?", chunks, 2)
	require.Len(t, top, 2)
	assert.Equal(t, 0, top[0].Index)
	assert.Equal(t, 1, top[1].Index)
}

func TestRankBounds(t *testing.T) {
	assert.Nil(t, Rank("q", nil, 3))
	assert.Nil(t, Rank("q", []string{"x"}, 0))
	assert.Len(t, Rank("q", []string{"x", "y"}, 5), 2)
}
