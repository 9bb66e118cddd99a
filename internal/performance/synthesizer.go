// Package performance fabricates the historical value series the charts
// display. Nothing is persisted; every request synthesizes a fresh walk.
package performance

import (
	"math/rand"
	"time"

	"crypto-trade-sim-go/internal/walk"
)

const dateLayout = "2006-01-02"

// Series is a synthesized value history, oldest point first.
type Series struct {
	Dates  []string  `json:"dates"`
	Values []float64 `json:"values"`
}

// Synthesize walks a value forward one calendar day at a time, producing
// days+1 points that end at the current date. Every point, the first
// included, is one step from the previous value: the start value itself is
// never emitted. Each step is rounded to two decimals and the rounded value
// feeds the next step, so rounding error accumulates along the series.
func Synthesize(rng *rand.Rand, start float64, days int, steps walk.StepSource) Series {
	s := Series{
		Dates:  make([]string, 0, days+1),
		Values: make([]float64, 0, days+1),
	}

	// Calendar days in UTC, matching ISO-8601 date output.
	now := time.Now().UTC()
	current := start
	for i := days; i >= 0; i-- {
		s.Dates = append(s.Dates, now.AddDate(0, 0, -i).Format(dateLayout))
		current = walk.Round2(current * steps.Factor(rng))
		s.Values = append(s.Values, current)
	}

	return s
}

// TotalReturn reports (last/first - 1) over the series, 0 for an empty or
// zero-start series.
func (s Series) TotalReturn() float64 {
	if len(s.Values) == 0 || s.Values[0] == 0 {
		return 0
	}
	return s.Values[len(s.Values)-1]/s.Values[0] - 1
}

// CoinPerformance pairs a coin symbol with its synthesized series.
type CoinPerformance struct {
	Symbol      string `json:"symbol"`
	Performance Series `json:"performance"`
}

// BestWorst picks the entries with the highest and lowest total return.
// Ties keep the earlier entry; both results are nil for an empty input.
func BestWorst(perfs []CoinPerformance) (best, worst *CoinPerformance) {
	for i := range perfs {
		p := &perfs[i]
		if best == nil || p.Performance.TotalReturn() > best.Performance.TotalReturn() {
			best = p
		}
		if worst == nil || p.Performance.TotalReturn() < worst.Performance.TotalReturn() {
			worst = p
		}
	}
	return best, worst
}
