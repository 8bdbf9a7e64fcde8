package review

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReply = `{"summary":"Deal looks standard.","inconsistencies":["Net 45 vs required Net 30"],"redFlags":["Cyber liability $5M < $10M minimum"],"overallScore":62}`

func TestStripCodeFence(t *testing.T) {
	cases := map[string]string{
		"```json\n" + sampleReply + "\n```": sampleReply,
		"```\n" + sampleReply + "\n```":     sampleReply,
		"```json " + sampleReply + "```":    sampleReply,
		"  " + sampleReply + "\n":           sampleReply,
		sampleReply:                         sampleReply,
	}
	for in, want := range cases {
		assert.Equal(t, want, StripCodeFence(in), "input %q", in)
	}
}

func TestStripCodeFenceIdempotent(t *testing.T) {
	once := StripCodeFence("```json\n" + sampleReply + "\n```")
	assert.Equal(t, once, StripCodeFence(once))
}

func TestParseAnalysisFencedMatchesInner(t *testing.T) {
	fenced, err := ParseAnalysis("```json\n" + sampleReply + "\n```")
	require.NoError(t, err)
	inner, err := ParseAnalysis(sampleReply)
	require.NoError(t, err)
	assert.Equal(t, inner, fenced)

	assert.Equal(t, "Deal looks standard.", inner.Summary)
	assert.Equal(t, []string{"Net 45 vs required Net 30"}, inner.Inconsistencies)
	assert.Equal(t, []string{"Cyber liability $5M < $10M minimum"}, inner.RedFlags)
	assert.Equal(t, 62, inner.OverallScore)
}

func TestParseAnalysisEmptyListsAreValid(t *testing.T) {
	res, err := ParseAnalysis(`{"summary":"ok","inconsistencies":[],"redFlags":[],"overallScore":95}`)
	require.NoError(t, err)
	assert.Empty(t, res.RedFlags)
	assert.Empty(t, res.Inconsistencies)
}

func TestParseAnalysisRejects(t *testing.T) {
	cases := map[string]string{
		"not json":       "I could not read the document.",
		"empty":          "   ",
		"missing key":    `{"summary":"x","inconsistencies":[],"overallScore":50}`,
		"null list":      `{"summary":"x","inconsistencies":null,"redFlags":[],"overallScore":50}`,
		"wrong type":     `{"summary":"x","inconsistencies":"none","redFlags":[],"overallScore":50}`,
		"score too low":  `{"summary":"x","inconsistencies":[],"redFlags":[],"overallScore":0}`,
		"score too high": `{"summary":"x","inconsistencies":[],"redFlags":[],"overallScore":101}`,
		"float score":    `{"summary":"x","inconsistencies":[],"redFlags":[],"overallScore":62.5}`,
		"trailing text":  `{"summary":"x","inconsistencies":[],"redFlags":[],"overallScore":50} not json`,
		"two objects":    `{"summary":"x","inconsistencies":[],"redFlags":[],"overallScore":50}{"x":1}`,
		"null item":      `{"summary":"x","inconsistencies":[null],"redFlags":[],"overallScore":50}`,
		"blank item":     `{"summary":"x","inconsistencies":[],"redFlags":["  "],"overallScore":50}`,
		"null summary":   `{"summary":null,"inconsistencies":[],"redFlags":[],"overallScore":50}`,
	}
	for name, in := range cases {
		_, err := ParseAnalysis(in)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, ErrMalformedReply), name)
	}
}
