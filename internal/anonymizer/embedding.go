package anonymizer

import (
	"math"
	"regexp"
	"strings"
)

// EmbeddingDim is the fixed dimensionality of the pseudo-embedding.
const EmbeddingDim = 384

var nonWordRe = regexp.MustCompile(`[^a-z0-9_\s]`)

// Embed computes a deterministic bag-of-words pseudo-embedding: each unique
// word (length > 2) contributes sin(hash*(i+1)) * termFrequency to every
// dimension i, and the vector is L2-normalized. It is a stable similarity
// signal, not a semantic embedding; identical text always yields a
// bit-identical vector.
func (a *Anonymizer) Embed(text string) []float64 {
	words := tokenize(text)

	counts := map[string]int{}
	unique := make([]string, 0, len(words))
	for _, w := range words {
		if _, ok := counts[w]; !ok {
			unique = append(unique, w)
		}
		counts[w]++
	}

	emb := make([]float64, EmbeddingDim)
	total := float64(len(words))

	for _, w := range unique {
		freq := float64(counts[w]) / total
		h := wordHash(w)
		for i := 0; i < EmbeddingDim; i++ {
			emb[i] += math.Sin(h*float64(i+1)) * freq
		}
	}

	var sq float64
	for _, v := range emb {
		sq += v * v
	}
	if mag := math.Sqrt(sq); mag > 0 {
		for i := range emb {
			emb[i] /= mag
		}
	}

	return emb
}

func tokenize(text string) []string {
	cleaned := nonWordRe.ReplaceAllString(strings.ToLower(text), " ")

	out := make([]string, 0, 16)
	for _, w := range strings.Fields(cleaned) {
		if len(w) > 2 {
			out = append(out, w)
		}
	}
	return out
}

// wordHash is a 32-bit rolling hash (h*31 + c), absolute value.
func wordHash(w string) float64 {
	var h int32
	for _, c := range w {
		h = h<<5 - h + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return float64(v)
}

// ContentHash returns the same rolling hash over a whole text, used as an
// opaque content fingerprint in shared payloads.
func ContentHash(text string) int64 {
	var h int32
	for _, c := range text {
		h = h<<5 - h + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}
