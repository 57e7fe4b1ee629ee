package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{true, "YES"},
		{false, "NO"},
		{"yes", "YES"},
		{"Willing", "YES"},
		{"accept", "YES"},
		{"no", "NO"},
		{"Not Willing", "NO"},
		{"decline", "NO"},
		{"Toronto, Ontario", "TORONTO, ONTARIO"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in))
	}
}

func TestBestOptionExactMatch(t *testing.T) {
	idx, ok := BestOption([]string{"Male", "Female", "Decline to answer"}, "Female")
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestBestOptionYesNo(t *testing.T) {
	idx, ok := BestOption([]string{"Yes", "No"}, "true")
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	idx, ok = BestOption([]string{"Yes", "No"}, "false")
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestBestOptionSubstring(t *testing.T) {
	options := []string{"Select...", "Bachelor's Degree (BS)", "Master's Degree (MS)"}
	idx, ok := BestOption(options, "Master's Degree")
	require.True(t, ok)
	assert.Equal(t, 2, idx)
}

func TestBestOptionCommaSeparated(t *testing.T) {
	options := []string{"Full Time", "Part Time", "Internship"}
	idx, ok := BestOption(options, "Full-time, Contract")
	require.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestBestOptionFuzzy(t *testing.T) {
	options := []string{"Engineering", "Marketing", "Sales"}
	idx, ok := BestOption(options, "Enginering")
	require.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestBestOptionBelowThreshold(t *testing.T) {
	_, ok := BestOption([]string{"Alpha", "Beta"}, "zzzzzz")
	assert.False(t, ok)
}

func TestBestOptionEmptyInputs(t *testing.T) {
	_, ok := BestOption(nil, "x")
	assert.False(t, ok)
	_, ok = BestOption([]string{"a"}, "")
	assert.False(t, ok)
}

func TestBestOptionFirstLetterPrefilter(t *testing.T) {
	// Больше 10 опций: кандидаты фильтруются по первой букве
	options := []string{
		"Alabama", "Alaska", "Arizona", "Arkansas", "California",
		"Colorado", "Connecticut", "Delaware", "Florida", "Georgia",
		"Ontario", "Oregon",
	}
	idx, ok := BestOption(options, "Ontario")
	require.True(t, ok)
	assert.Equal(t, 10, idx)

	// Цель с первой буквой, которой нет среди опций, не матчится
	_, ok = BestOption(options, "Quebec")
	assert.False(t, ok)
}

func TestBestOptionsDedupAndDrop(t *testing.T) {
	options := []string{"Go", "Python", "Rust"}
	indices := BestOptions(options, []string{"Go", "go", "Haskellzz", "Python"})
	assert.Equal(t, []int{0, 1}, indices)
}
