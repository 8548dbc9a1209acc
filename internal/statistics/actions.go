package statistics

import (
	"math"

	"github.com/lox/pokertracker/internal/game"
)

// ActionStats counts what a player did and what they could have done.
type ActionStats struct {
	Raises int `json:"raises"`
	Calls  int `json:"calls"`
	Folds  int `json:"folds"`
	Checks int `json:"checks"`
	Bets   int `json:"bets"`
	AllIns int `json:"allIns"`

	RaiseOpportunities int `json:"raiseOpportunities"`
	CallOpportunities  int `json:"callOpportunities"`
	FoldOpportunities  int `json:"foldOpportunities"`
	CheckOpportunities int `json:"checkOpportunities"`
	BetOpportunities   int `json:"betOpportunities"`
}

// Opportunities is the set of choices open at a decision point.
type Opportunities struct {
	Fold, Call, Raise, Check, Bet bool
}

// OpportunitiesFor reports which actions the context allowed. Players who
// are not active had no decision to make.
func OpportunitiesFor(ctx game.ActionContext) Opportunities {
	if ctx.Status != game.StatusActive {
		return Opportunities{}
	}
	o := Opportunities{Fold: true}
	if owed := ctx.Owed(); owed > 0 {
		o.Call = true
		o.Raise = ctx.Stack > owed
		return o
	}
	o.Check = true
	o.Bet = ctx.CurrentBet == 0 || (ctx.IsBigBlind && ctx.Round == 0 && ctx.CurrentBet == ctx.BigBlind)
	return o
}

// Record counts the action taken and the opportunities the context offered.
func (a *ActionStats) Record(ctx game.ActionContext, action game.ActionType) {
	o := OpportunitiesFor(ctx)
	a.FoldOpportunities += b2i(o.Fold)
	a.CallOpportunities += b2i(o.Call)
	a.RaiseOpportunities += b2i(o.Raise)
	a.CheckOpportunities += b2i(o.Check)
	a.BetOpportunities += b2i(o.Bet)

	switch action {
	case game.ActionRaise:
		a.Raises++
	case game.ActionCall:
		a.Calls++
	case game.ActionFold:
		a.Folds++
	case game.ActionCheck:
		a.Checks++
	case game.ActionBet:
		a.Bets++
	case game.ActionAllIn:
		a.AllIns++
	}
}

// Merge adds other's counts.
func (a *ActionStats) Merge(other ActionStats) {
	a.Raises += other.Raises
	a.Calls += other.Calls
	a.Folds += other.Folds
	a.Checks += other.Checks
	a.Bets += other.Bets
	a.AllIns += other.AllIns
	a.RaiseOpportunities += other.RaiseOpportunities
	a.CallOpportunities += other.CallOpportunities
	a.FoldOpportunities += other.FoldOpportunities
	a.CheckOpportunities += other.CheckOpportunities
	a.BetOpportunities += other.BetOpportunities
}

// AggressionFactor returns bets and raises per call.
func (a ActionStats) AggressionFactor() float64 {
	aggressive := float64(a.Bets + a.Raises)
	if a.Calls == 0 {
		return aggressive
	}
	return aggressive / float64(a.Calls)
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// IsVPIPAction reports whether action voluntarily put money in the pot
// pre-flop. Forced bets and the big blind checking its option do not count.
func IsVPIPAction(ctx game.ActionContext, action game.ActionType) bool {
	if ctx.Round != 0 {
		return false
	}
	switch action {
	case game.ActionBet, game.ActionCall, game.ActionRaise, game.ActionAllIn:
		return true
	}
	return false
}

// VPIP tracks how often a player voluntarily puts money in pre-flop.
type VPIP struct {
	HandsPlayed            int     `json:"handsPlayed"`
	HandsVoluntarilyPlayed int     `json:"handsVoluntarilyPlayed"`
	Percent                float64 `json:"vpip"`
}

// Update counts a voluntary hand when voluntary is set and recomputes the
// percentage, rounded to a whole number.
func (v *VPIP) Update(voluntary bool) {
	if voluntary {
		v.HandsVoluntarilyPlayed++
	}
	v.Percent = percent(v.HandsVoluntarilyPlayed, v.HandsPlayed, 0)
}

func percent(n, of, decimals int) float64 {
	if of == 0 {
		return 0
	}
	scale := math.Pow(10, float64(decimals))
	return math.Round(float64(n)/float64(of)*100*scale) / scale
}
