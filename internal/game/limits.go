package game

import "fmt"

// BetContext is the state a bet or raise is judged against.
type BetContext struct {
	Stack      int // Acting player's chips behind
	PlayerBet  int // Acting player's bet this round
	CurrentBet int // Amount every player must match this round
	Pot        int // Total pot before the action
	MinBet     int
	MinRaise   int
}

// CallAmount is what the player owes to stay in.
func (c BetContext) CallAmount() int {
	return max(c.CurrentBet-c.PlayerBet, 0)
}

// MinBetAmount is the smallest opening bet, capped by the player's stack.
func (c BetContext) MinBetAmount() int {
	return min(c.MinBet, c.Stack)
}

// MinRaiseTo is the smallest legal raise total.
func (c BetContext) MinRaiseTo() int {
	return c.CurrentBet + c.MinRaise
}

// Limit bounds the size of bets and raises. CALL, FOLD and ALL_IN behave the
// same under every limit.
type Limit interface {
	Kind() BettingLimit
	// MaxBet is the largest opening bet.
	MaxBet(c BetContext) int
	// MaxRaiseTo is the largest total a raise may reach.
	MaxRaiseTo(c BetContext) int
}

// NewLimit returns the strategy for kind.
func NewLimit(kind BettingLimit) (Limit, error) {
	switch kind {
	case NoLimit:
		return noLimit{}, nil
	case PotLimit:
		return potLimit{}, nil
	case FixedLimit:
		return fixedLimit{}, nil
	}
	return nil, fmt.Errorf("unknown betting limit %q", kind)
}

type noLimit struct{}

func (noLimit) Kind() BettingLimit { return NoLimit }

func (noLimit) MaxBet(c BetContext) int { return c.Stack }

func (noLimit) MaxRaiseTo(c BetContext) int { return c.Stack + c.PlayerBet }

type potLimit struct{}

func (potLimit) Kind() BettingLimit { return PotLimit }

func (potLimit) MaxBet(c BetContext) int { return min(c.Pot, c.Stack) }

// MaxRaiseTo is a pot-sized raise: the pot after calling, added to the
// current bet.
func (potLimit) MaxRaiseTo(c BetContext) int {
	return min(c.Pot+c.CurrentBet+c.CallAmount(), c.Stack+c.PlayerBet)
}

type fixedLimit struct{}

func (fixedLimit) Kind() BettingLimit { return FixedLimit }

func (fixedLimit) MaxBet(c BetContext) int { return min(c.MinBet, c.Stack) }

func (fixedLimit) MaxRaiseTo(c BetContext) int {
	return min(c.MinRaiseTo(), c.Stack+c.PlayerBet)
}

// ValidateBet checks an opening bet of amount chips.
func ValidateBet(l Limit, c BetContext, amount int) error {
	switch {
	case c.CurrentBet > 0:
		return fmt.Errorf("cannot bet, betting already opened at %d: %w", c.CurrentBet, ErrIllegalAction)
	case amount <= 0:
		return fmt.Errorf("bet of %d: %w", amount, ErrInvalidAmount)
	case amount > c.Stack:
		return fmt.Errorf("bet of %d exceeds stack of %d: %w", amount, c.Stack, ErrIllegalAction)
	case amount < c.MinBetAmount():
		return fmt.Errorf("bet must be at least %d: %w", c.MinBetAmount(), ErrIllegalAction)
	case amount > l.MaxBet(c):
		return fmt.Errorf("bet of %d exceeds %s maximum of %d: %w", amount, l.Kind(), l.MaxBet(c), ErrIllegalAction)
	}
	return nil
}

// ValidateRaise checks a raise to a total of to chips for the round.
func ValidateRaise(l Limit, c BetContext, to int) error {
	switch {
	case c.CurrentBet == 0:
		return fmt.Errorf("nothing to raise, bet instead: %w", ErrIllegalAction)
	case to <= 0:
		return fmt.Errorf("raise to %d: %w", to, ErrInvalidAmount)
	case to-c.CurrentBet < c.MinRaise:
		return fmt.Errorf("raise to %d is below the minimum of %d: %w", to, c.MinRaiseTo(), ErrIllegalAction)
	case to-c.PlayerBet > c.Stack:
		return fmt.Errorf("raise to %d needs %d chips, stack is %d: %w", to, to-c.PlayerBet, c.Stack, ErrIllegalAction)
	case to > l.MaxRaiseTo(c):
		return fmt.Errorf("raise to %d exceeds %s maximum of %d: %w", to, l.Kind(), l.MaxRaiseTo(c), ErrIllegalAction)
	}
	return nil
}
