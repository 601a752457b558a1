package engine

import "github.com/leasebook/leasebook/internal/lease"

// InceptionTerms recovers the terms that were in force at commencement by
// folding each modification's Previous snapshot over the current terms,
// most recent effective date first. Each Previous snapshot records exactly
// the pre-change value of every field its modification touched, so peeling
// them back newest-first lands on the inception state.
func InceptionTerms(c lease.Contract) lease.Terms {
	terms := c.Terms
	for _, m := range c.ModificationsDesc() {
		terms = m.Previous.Apply(terms)
	}
	return terms
}

// ReplayTerms folds the modifications forward from the given inception
// terms, applying each New snapshot in chronological order. It is the
// inverse of InceptionTerms: ReplayTerms(c, InceptionTerms(c)) reproduces
// the contract's current terms.
func ReplayTerms(c lease.Contract, inception lease.Terms) lease.Terms {
	terms := inception
	for _, m := range c.ModificationsAsc() {
		terms = m.New.Apply(terms)
	}
	return terms
}
