package decision

import (
	"sort"

	"github.com/ShayCichocki/adivina/pkg/models"
)

// Score is the split quality of one characteristic over a candidate set.
type Score struct {
	// Characteristic is the label being scored.
	Characteristic string
	// Count is how many candidates have the characteristic.
	Count int
	// Variance is the binomial variance p*(1-p)*n, with p = Count/n.
	Variance float64
}

// Variances maps every characteristic held by at least one candidate to its
// binomial variance over the candidate set.
func Variances(candidates []models.Entity) map[string]float64 {
	out := make(map[string]float64)
	for _, s := range Rank(candidates) {
		out[s.Characteristic] = s.Variance
	}
	return out
}

// Rank scores every characteristic held by at least one candidate, highest
// variance first. Ties are broken by label in ascending byte order.
func Rank(candidates []models.Entity) []Score {
	n := len(candidates)
	if n == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, e := range candidates {
		// Characteristics are a set; a repeated label counts once.
		seen := make(map[string]struct{}, len(e.Characteristics))
		for _, c := range e.Characteristics {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			counts[c]++
		}
	}

	scores := make([]Score, 0, len(counts))
	for c, k := range counts {
		p := float64(k) / float64(n)
		scores = append(scores, Score{
			Characteristic: c,
			Count:          k,
			Variance:       p * (1 - p) * float64(n),
		})
	}

	// k*(n-k) orders exactly like the variance for a fixed n and avoids
	// float comparisons between equal splits.
	sort.Slice(scores, func(i, j int) bool {
		wi := scores[i].Count * (n - scores[i].Count)
		wj := scores[j].Count * (n - scores[j].Count)
		if wi != wj {
			return wi > wj
		}
		return scores[i].Characteristic < scores[j].Characteristic
	})

	return scores
}

// SelectSplit returns the characteristic that best separates the candidates.
// It returns false when no characteristic has nonzero variance, i.e. every
// candidate has the same characteristic set. A selected characteristic is
// always held by at least one candidate and missing from at least one.
func SelectSplit(candidates []models.Entity) (string, bool) {
	ranked := Rank(candidates)
	if len(ranked) == 0 {
		return "", false
	}
	best := ranked[0]
	if best.Count == len(candidates) {
		// Every characteristic is held by all candidates.
		return "", false
	}
	return best.Characteristic, true
}
