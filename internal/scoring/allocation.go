package scoring

import (
	"sort"

	"github.com/khanrehan/halalinvest/pkg/models"
)

// DefaultShortlist is how many top-ranked stocks an allocation covers.
const DefaultShortlist = 10

// AllocationOptions tune how a budget is spread over scored stocks.
type AllocationOptions struct {
	// Shortlist caps how many of the top-ranked stocks receive money.
	// Zero means DefaultShortlist.
	Shortlist int
	// SkipOverpriced drops stocks tagged OVERPRICED before ranking.
	SkipOverpriced bool
}

// Rank sorts score results by composite, best first. Results without a
// composite are dropped. Ties break on ticker so output is stable.
func Rank(results []models.ScoreResult) []models.ScoreResult {
	ranked := make([]models.ScoreResult, 0, len(results))
	for _, r := range results {
		if r.Composite.Valid() {
			ranked = append(ranked, r)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i].Composite.Or(0), ranked[j].Composite.Or(0)
		if a != b {
			return a > b
		}
		return ranked[i].Ticker < ranked[j].Ticker
	})
	return ranked
}

// Allocate splits budgetCents across the top-ranked stocks in
// proportion to their composite scores. Each entry is floored to a
// whole cent and the remainder goes to the top-ranked stock, so the
// entries always sum exactly to the budget.
func Allocate(results []models.ScoreResult, budgetCents int64, opts AllocationOptions) models.AllocationPlan {
	shortlist := opts.Shortlist
	if shortlist <= 0 {
		shortlist = DefaultShortlist
	}

	ranked := Rank(results)
	if opts.SkipOverpriced {
		kept := ranked[:0]
		for _, r := range ranked {
			if r.Tag != models.TagOverpriced {
				kept = append(kept, r)
			}
		}
		ranked = kept
	}
	if len(ranked) > shortlist {
		ranked = ranked[:shortlist]
	}

	plan := models.AllocationPlan{BudgetCents: budgetCents}
	if len(ranked) == 0 || budgetCents <= 0 {
		return plan
	}

	var totalScore float64
	for _, r := range ranked {
		totalScore += r.Composite.Or(0)
	}

	plan.Entries = make([]models.AllocationEntry, 0, len(ranked))
	var allocated int64
	for _, r := range ranked {
		score := r.Composite.Or(0)
		var cents int64
		if totalScore > 0 {
			cents = int64(float64(budgetCents) * score / totalScore)
		} else {
			// All-zero scores: split evenly.
			cents = budgetCents / int64(len(ranked))
		}
		allocated += cents
		plan.Entries = append(plan.Entries, entryFor(r, cents))
	}

	// Flooring leaves a few cents unassigned; the best-ranked stock
	// absorbs them so the plan sums exactly to the budget.
	if rem := budgetCents - allocated; rem > 0 {
		plan.Entries[0] = entryFor(ranked[0], plan.Entries[0].Cents+rem)
	}
	return plan
}

func entryFor(r models.ScoreResult, cents int64) models.AllocationEntry {
	e := models.AllocationEntry{
		Ticker:  r.Ticker,
		Company: r.Company,
		Price:   r.Price,
		Score:   r.Composite.Or(0),
		Cents:   cents,
		Amount:  float64(cents) / 100,
	}
	if p, ok := r.Price.Value(); ok && p > 0 {
		e.Shares = e.Amount / p
	}
	return e
}
