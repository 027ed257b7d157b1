package eval

import (
	"fmt"
	"math"
)

// MetricNames labels the values of Metrics.Tuple, in order.
var MetricNames = [8]string{"P.25", "P.50", "P.75", "P1.00", "P_mean1", "P_mean2", "P_norm", "R_norm"}

// Metrics holds the quality measures of one ranked list.
type Metrics struct {
	P25    float64 // Precision at 25% recall
	P50    float64 // Precision at 50% recall
	P75    float64 // Precision at 75% recall
	P100   float64 // Precision at full recall
	PMean1 float64 // Mean of P25, P50 and P75
	PMean2 float64 // Ten-point interpolated precision
	PNorm  float64 // Normalized precision
	RNorm  float64 // Normalized recall
}

// Tuple returns the metrics in MetricNames order.
func (m Metrics) Tuple() [8]float64 {
	return [8]float64{m.P25, m.P50, m.P75, m.P100, m.PMean1, m.PMean2, m.PNorm, m.RNorm}
}

// Evaluate scores a ranked list of document codes against the relevant codes.
//
// The list is walked until every relevant code has been seen. If it ends
// first, ErrRecallNotReached is returned. Normalized precision and recall
// are computed over the whole list; when it holds no irrelevant document
// they are NaN and the returned error wraps ErrUndefinedMetric, with the
// other six metrics still filled in.
func Evaluate(ranked, relevant []string) (Metrics, error) {
	relevantSet := make(map[string]struct{}, len(relevant))
	for _, code := range relevant {
		relevantSet[code] = struct{}{}
	}
	r := len(relevantSet)
	if r == 0 {
		return Metrics{}, ErrEmptyRelevantSet
	}

	// Precision at each rank up to full recall, and the 1-based ranks of hits.
	var precision []float64
	ranks := make([]int, 0, r)
	seen := make(map[string]struct{}, r)
	for i, code := range ranked {
		if len(ranks) == r {
			break
		}
		if _, ok := relevantSet[code]; ok {
			if _, dup := seen[code]; !dup {
				seen[code] = struct{}{}
				ranks = append(ranks, i+1)
			}
		}
		precision = append(precision, float64(len(ranks))/float64(i+1))
	}
	if len(ranks) < r {
		return Metrics{}, fmt.Errorf("%w: %d of %d relevant documents in %d results",
			ErrRecallNotReached, len(ranks), r, len(ranked))
	}

	var m Metrics
	m.P25 = precision[r/4]
	m.P50 = precision[r/2]
	m.P75 = precision[r*3/4]
	m.P100 = precision[len(precision)-1]
	m.PMean1 = (m.P25 + m.P50 + m.P75) / 3

	for k := 0; k < 10; k++ {
		m.PMean2 += precision[k*r/10]
	}
	m.PMean2 /= 10

	n := len(ranked)
	if n <= r {
		m.PNorm = math.NaN()
		m.RNorm = math.NaN()
		return m, fmt.Errorf("%w: %d relevant documents in %d results", ErrUndefinedMetric, r, n)
	}

	var rankSum, logSum float64
	for i, rank := range ranks {
		rankSum += float64(rank - (i + 1))
		logSum += math.Log(float64(rank)) - math.Log(float64(i+1))
	}
	nf, rf := float64(n), float64(r)
	m.RNorm = 1 - rankSum/(rf*(nf-rf))
	m.PNorm = 1 - logSum/(nf*math.Log(nf)-(nf-rf)*math.Log(nf-rf)-rf*math.Log(rf))

	return m, nil
}
