// Package embed provides the vector-tier's text-to-vector step. The
// hash-based scheme is always available offline; an HTTP-backed provider
// can replace it without touching the scoring code (cosine similarity),
// per the design note that embedding providers are swappable behind one
// interface.
package embed

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

// Dimensions is the fixed width of every embedding vector this package
// produces, hash-based or provider-backed.
const Dimensions = 256

// Embedder turns text into a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

var wordSplitter = regexp.MustCompile(`\W+`)

// tokenize splits on any non-word character, lowercases, and drops tokens
// of length <= 1.
func tokenize(text string) []string {
	parts := wordSplitter.Split(strings.ToLower(text), -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if len(p) > 1 {
			out = append(out, p)
		}
	}
	return out
}

// HashEmbedder is the always-available, deterministic embedding scheme:
// each token is hashed into one of Dimensions bins via a stable
// non-negative hash, the bin is incremented, and the result is
// L2-normalized.
type HashEmbedder struct{}

// Embed implements Embedder.
func (HashEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	vec := make([]float64, Dimensions)
	for _, tok := range tokenize(text) {
		vec[hashToken(tok)%Dimensions]++
	}
	normalize(vec)
	return vec, nil
}

func hashToken(tok string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(tok))
	return int(h.Sum32() & 0x7fffffff)
}

func normalize(vec []float64) {
	var sumSq float64
	for _, v := range vec {
		sumSq += v * v
	}
	if sumSq == 0 {
		return
	}
	norm := math.Sqrt(sumSq)
	for i := range vec {
		vec[i] /= norm
	}
}

// Cosine returns the cosine similarity between two equal-length vectors,
// or 0 if either is a zero vector.
func Cosine(a, b []float64) float64 {
	var dot, normA, normB float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
