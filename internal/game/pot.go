package game

import (
	"fmt"
	"slices"
	"strconv"
)

// DefaultPotKey is the winners-map key used for every pot that has no
// pot-specific entry.
const DefaultPotKey = "default"

// MainPotID is the id of the lowest-tier pot. Side pots are "side-1", "side-2"
// and so on from the lowest tier up.
const MainPotID = "main"

// Pot represents a pot (main or side)
type Pot struct {
	ID       string   `json:"id"`
	Amount   int      `json:"amount"`
	Eligible []string `json:"eligiblePlayers"` // Player ids that may win this pot
	IsMain   bool     `json:"isMain"`
}

// IsEligible returns true if the player may win this pot
func (p Pot) IsEligible(playerID string) bool {
	return slices.Contains(p.Eligible, playerID)
}

// Contribution is a player's cumulative chips committed this hand.
type Contribution struct {
	PlayerID string `json:"playerId"`
	Amount   int    `json:"amount"`
}

// Payout is a single winner's share of a pot.
type Payout struct {
	PlayerID string `json:"playerId"`
	Amount   int    `json:"amount"`
}

// Distribution records how one pot was split.
type Distribution struct {
	PotID   string   `json:"potId"`
	Amount  int      `json:"amount"`
	Winners []string `json:"winners"`
	Payouts []Payout `json:"payouts"`
}

// PotManager manages main and side pots
type PotManager struct {
	pots          []Pot
	computed      bool // pots reflect every contribution made so far
	contributions map[string]int
	order         []string // first-contribution order
	totalPot      int
}

// NewPotManager creates an empty pot manager
func NewPotManager() *PotManager {
	return &PotManager{contributions: make(map[string]int)}
}

// AddBet records chips committed by a player this hand.
func (pm *PotManager) AddBet(playerID string, amount int) {
	if amount <= 0 {
		return
	}
	if _, ok := pm.contributions[playerID]; !ok {
		pm.order = append(pm.order, playerID)
	}
	pm.contributions[playerID] += amount
	pm.totalPot += amount
	pm.computed = false
}

// Contribution returns a player's cumulative contribution this hand.
func (pm *PotManager) Contribution(playerID string) int {
	return pm.contributions[playerID]
}

// Contributions returns every contribution in first-contribution order.
func (pm *PotManager) Contributions() []Contribution {
	out := make([]Contribution, 0, len(pm.order))
	for _, id := range pm.order {
		out = append(out, Contribution{PlayerID: id, Amount: pm.contributions[id]})
	}
	return out
}

// TotalPot returns the sum of all contributions this hand.
func (pm *PotManager) TotalPot() int {
	return pm.totalPot
}

// Pots returns a copy of the current pot list.
func (pm *PotManager) Pots() []Pot {
	out := make([]Pot, len(pm.pots))
	for i, p := range pm.pots {
		p.Eligible = slices.Clone(p.Eligible)
		out[i] = p
	}
	return out
}

// Current reports whether the pot list accounts for every contribution.
func (pm *PotManager) Current() bool {
	return pm.computed
}

// CreateSidePots recomputes the pot list from the contributions and the
// players' statuses.
func (pm *PotManager) CreateSidePots(players []*Player) {
	pm.pots = pm.computePots(players)
	pm.computed = true
}

func (pm *PotManager) computePots(players []*Player) []Pot {
	inHand := make(map[string]bool, len(players))
	hasAllIn := false
	for _, p := range players {
		inHand[p.ID] = p.InHand()
		if p.Status == StatusAllIn {
			hasAllIn = true
		}
	}

	if pm.totalPot == 0 {
		return []Pot{}
	}

	// Folded contributors are never eligible, even for a lone main pot.
	if !hasAllIn {
		eligible := make([]string, 0, len(pm.order))
		for _, id := range pm.order {
			if inHand[id] {
				eligible = append(eligible, id)
			}
		}
		return []Pot{{ID: MainPotID, Amount: pm.totalPot, Eligible: eligible, IsMain: true}}
	}

	// Distinct positive contribution tiers, ascending
	var tiers []int
	for _, id := range pm.order {
		if amt := pm.contributions[id]; amt > 0 && !slices.Contains(tiers, amt) {
			tiers = append(tiers, amt)
		}
	}
	slices.Sort(tiers)

	pots := make([]Pot, 0, len(tiers))
	previous, orphaned := 0, 0
	for _, tier := range tiers {
		var contributors, eligible []string
		for _, id := range pm.order {
			if pm.contributions[id] >= tier {
				contributors = append(contributors, id)
				if inHand[id] {
					eligible = append(eligible, id)
				}
			}
		}
		amount := (tier - previous) * len(contributors)
		previous = tier

		switch {
		case amount == 0:
		case len(eligible) == 0:
			// Everyone at this tier folded; the chips stay in play in a
			// neighbouring pot.
			if len(pots) > 0 {
				pots[len(pots)-1].Amount += amount
			} else {
				orphaned += amount
			}
		case len(pots) > 0 && sameMembers(pots[len(pots)-1].Eligible, eligible):
			pots[len(pots)-1].Amount += amount
		default:
			pots = append(pots, Pot{Amount: amount + orphaned, Eligible: eligible})
			orphaned = 0
		}
	}
	if orphaned > 0 {
		pots = append(pots, Pot{Amount: orphaned, Eligible: []string{}})
	}

	for i := range pots {
		if i == 0 {
			pots[i].ID = MainPotID
			pots[i].IsMain = true
		} else {
			pots[i].ID = "side-" + strconv.Itoa(i)
		}
	}
	return pots
}

// DistributePots splits every pot among its designated winners. Winners for a
// pot are looked up by pot id, falling back to DefaultPotKey. Designees who are
// not eligible for a pot are ignored for that pot; odd chips go to the first
// eligible winner in the order given. Nothing is changed if any pot with chips
// would be left without a winner.
func (pm *PotManager) DistributePots(winners map[string][]string) ([]Distribution, error) {
	for key := range winners {
		if key == DefaultPotKey {
			continue
		}
		if !slices.ContainsFunc(pm.pots, func(p Pot) bool { return p.ID == key }) {
			return nil, fmt.Errorf("pot %q: %w", key, ErrNotFound)
		}
	}
	return distribute(pm.pots, winners)
}

func distribute(pots []Pot, winners map[string][]string) ([]Distribution, error) {
	distributions := make([]Distribution, 0, len(pots))
	for _, pot := range pots {
		if pot.Amount == 0 {
			continue
		}
		designated, ok := winners[pot.ID]
		if !ok || len(designated) == 0 {
			designated = winners[DefaultPotKey]
		}

		var inPot []string
		for _, id := range designated {
			if pot.IsEligible(id) && !slices.Contains(inPot, id) {
				inPot = append(inPot, id)
			}
		}
		if len(inPot) == 0 {
			return nil, fmt.Errorf("pot %s (%d chips) has no eligible winner: %w", pot.ID, pot.Amount, ErrIllegalAction)
		}

		distributions = append(distributions, Distribution{
			PotID:   pot.ID,
			Amount:  pot.Amount,
			Winners: inPot,
			Payouts: splitPot(pot.Amount, inPot),
		})
	}
	return distributions, nil
}

// splitPot divides amount evenly; the remainder goes to the first winner.
func splitPot(amount int, winners []string) []Payout {
	share := amount / len(winners)
	remainder := amount % len(winners)

	payouts := make([]Payout, len(winners))
	for i, id := range winners {
		payouts[i] = Payout{PlayerID: id, Amount: share}
	}
	payouts[0].Amount += remainder
	return payouts
}

// Reset clears the pot manager for a new hand.
func (pm *PotManager) Reset() {
	pm.pots = nil
	pm.computed = false
	pm.contributions = make(map[string]int)
	pm.order = nil
	pm.totalPot = 0
}

func (pm *PotManager) clone() *PotManager {
	c := &PotManager{
		pots:          pm.Pots(),
		computed:      pm.computed,
		contributions: make(map[string]int, len(pm.contributions)),
		order:         slices.Clone(pm.order),
		totalPot:      pm.totalPot,
	}
	for id, amt := range pm.contributions {
		c.contributions[id] = amt
	}
	return c
}

func sameMembers(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, id := range b {
		if !slices.Contains(a, id) {
			return false
		}
	}
	return true
}
