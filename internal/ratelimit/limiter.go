package ratelimit

import "time"

// Result is the admission verdict for a single request.
type Result struct {
	Category  Category
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter decides whether requests may proceed based on per-category quotas.
type Limiter struct {
	store    Store
	policies *Policies
}

// NewLimiter creates a limiter over the given store and policy table.
func NewLimiter(store Store, policies *Policies) *Limiter {
	return &Limiter{
		store:    store,
		policies: policies,
	}
}

// Check counts one request for identifier against the category's quota.
// Denied requests are counted too, so retrying does not reset the window.
func (l *Limiter) Check(identifier string, category Category) Result {
	cfg, ok := l.policies.Limit(category)
	if !ok || cfg.Window <= 0 {
		return Result{Category: category, Allowed: false}
	}

	w := l.store.Hit(buildKey(category, identifier), cfg.Window)

	return Result{
		Category:  category,
		Allowed:   w.Count <= cfg.Max,
		Limit:     cfg.Max,
		Remaining: max(0, cfg.Max-w.Count),
		ResetAt:   w.ResetAt,
	}
}

// Policies returns the policy table the limiter enforces.
func (l *Limiter) Policies() *Policies {
	return l.policies
}

// buildKey keeps counters of different categories apart for the same identifier.
func buildKey(category Category, identifier string) string {
	return category.String() + ":" + identifier
}
