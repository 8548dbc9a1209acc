package statistics

import (
	"fmt"
	"math"
	"slices"
)

// HandResult is one player's outcome for a single hand.
type HandResult struct {
	NetBB       float64 // Chips won or lost, in big blinds
	Uncontested bool    // Everyone else folded
	PotChips    int     // Chips paid out across all pots
	BigBlind    int
}

// Results accumulates a player's per-hand outcomes in big blinds.
type Results struct {
	Hands  int       `json:"hands"`
	SumBB  float64   `json:"sumBB"`
	SumBB2 float64   `json:"sumBB2"` // Sum of squares for variance
	Values []float64 `json:"values"`

	ShowdownWins    int     `json:"showdownWins"`
	UncontestedWins int     `json:"uncontestedWins"`
	ShowdownBB      float64 `json:"showdownBB"`
	UncontestedBB   float64 `json:"uncontestedBB"`
	AllBB           float64 `json:"allBB"`

	MaxPotChips int     `json:"maxPotChips"`
	MaxPotBB    float64 `json:"maxPotBB"`
}

// Add folds a hand into the running totals.
func (r *Results) Add(result HandResult) {
	bb := result.NetBB
	r.Hands++
	r.SumBB += bb
	r.SumBB2 += bb * bb
	r.Values = append(r.Values, bb)
	r.AllBB += bb

	if result.Uncontested {
		r.UncontestedBB += bb
		if bb > 0 {
			r.UncontestedWins++
		}
	} else {
		r.ShowdownBB += bb
		if bb > 0 {
			r.ShowdownWins++
		}
	}

	if result.PotChips > r.MaxPotChips {
		r.MaxPotChips = result.PotChips
		if result.BigBlind > 0 {
			r.MaxPotBB = float64(result.PotChips) / float64(result.BigBlind)
		}
	}
}

// Mean returns big blinds won per hand.
func (r *Results) Mean() float64 {
	if r.Hands == 0 {
		return 0
	}
	return r.SumBB / float64(r.Hands)
}

// Variance returns the sample variance.
func (r *Results) Variance() float64 {
	if r.Hands < 2 {
		return 0
	}
	mean := r.Mean()
	return (r.SumBB2 - float64(r.Hands)*mean*mean) / float64(r.Hands-1)
}

// StdDev returns the sample standard deviation.
func (r *Results) StdDev() float64 {
	return math.Sqrt(math.Max(r.Variance(), 0))
}

// StdError returns the standard error of the mean.
func (r *Results) StdError() float64 {
	if r.Hands == 0 {
		return 0
	}
	return r.StdDev() / math.Sqrt(float64(r.Hands))
}

// ConfidenceInterval95 returns the 95% interval around the mean.
func (r *Results) ConfidenceInterval95() (low, high float64) {
	margin := 1.96 * r.StdError()
	return r.Mean() - margin, r.Mean() + margin
}

// Median returns the middle result.
func (r *Results) Median() float64 {
	return r.Percentile(0.5)
}

// Percentile interpolates the result at p, between 0 and 1.
func (r *Results) Percentile(p float64) float64 {
	if len(r.Values) == 0 {
		return 0
	}
	sorted := slices.Sorted(slices.Values(r.Values))
	pos := p * float64(len(sorted)-1)
	lower := int(pos)
	if lower+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := pos - float64(lower)
	return sorted[lower]*(1-weight) + sorted[lower+1]*weight
}

// IsLedgerBalanced reports whether the showdown and uncontested buckets add
// up to the total.
func (r *Results) IsLedgerBalanced() bool {
	return math.Abs(r.AllBB-r.ShowdownBB-r.UncontestedBB) <= 1e-6
}

// Validate checks the totals are internally consistent.
func (r *Results) Validate() error {
	if !r.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: all=%.6f showdown=%.6f uncontested=%.6f",
			r.AllBB, r.ShowdownBB, r.UncontestedBB)
	}
	if len(r.Values) != r.Hands {
		return fmt.Errorf("%d values recorded for %d hands", len(r.Values), r.Hands)
	}
	if wins := r.ShowdownWins + r.UncontestedWins; wins > r.Hands {
		return fmt.Errorf("%d wins exceed %d hands", wins, r.Hands)
	}
	return nil
}

func (r Results) clone() Results {
	r.Values = slices.Clone(r.Values)
	return r
}
