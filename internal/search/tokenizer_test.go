package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractTokensDiscardsReservedWords(t *testing.T) {
	tokens := ExtractTokens("NOT main AND test OR foo")
	require.Equal(t, []string{"main", "test", "foo"}, tokens)
}

func TestExtractTokensCapsAtTen(t *testing.T) {
	letters := strings.Split("abcdefghijklmn", "")
	query := strings.Join(letters, " ")
	tokens := ExtractTokens(query)
	require.Len(t, tokens, 10)
}

func TestExtractTokensSplitsOnPathSeparators(t *testing.T) {
	tokens := ExtractTokens("/api/alerts handler")
	require.Equal(t, []string{"api", "alerts", "handler"}, tokens)
}

func TestExtractTokensEmitsCJKIndividually(t *testing.T) {
	tokens := ExtractTokens("日本語")
	require.Equal(t, []string{"日", "本", "語"}, tokens)
}
