package localDB

import (
	"errors"
	"math"
	"sort"
)

// flatIndex ranks every stored vector by cosine similarity to the query.
// Exact, no approximation; sized for per-document indexes.
type flatIndex struct {
	vectors [][]float32
	norms   []float64
}

var errDimensionMismatch = errors.New("query dimension does not match index")

func newFlatIndex(vectors [][]float32) *flatIndex {
	norms := make([]float64, len(vectors))
	for i, v := range vectors {
		norms[i] = norm(v)
	}
	return &flatIndex{vectors: vectors, norms: norms}
}

// Query returns the positions of the k best vectors with their scores, best first.
// Ties keep insertion order.
func (f *flatIndex) Query(query []float32, k int) ([]int, []float32, error) {
	if k <= 0 || len(f.vectors) == 0 {
		return nil, nil, nil
	}
	qn := norm(query)

	type hit struct {
		pos   int
		score float64
	}
	hits := make([]hit, 0, len(f.vectors))
	for i, v := range f.vectors {
		if len(v) != len(query) {
			return nil, nil, errDimensionMismatch
		}
		hits = append(hits, hit{pos: i, score: cosine(query, v, qn, f.norms[i])})
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].score > hits[b].score
	})
	if len(hits) > k {
		hits = hits[:k]
	}

	positions := make([]int, len(hits))
	scores := make([]float32, len(hits))
	for i, h := range hits {
		positions[i] = h.pos
		scores[i] = float32(h.score)
	}
	return positions, scores, nil
}

func cosine(a, b []float32, na, nb float64) float64 {
	if na == 0 || nb == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (na * nb)
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
