package ratelimit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidPolicy is returned by Validate when the policy table cannot be used.
var ErrInvalidPolicy = errors.New("invalid rate limit policy")

// LimitConfig is the quota for one category: at most Max requests per fixed Window.
type LimitConfig struct {
	Window time.Duration
	Max    int
}

// Policies maps every category to its quota. Build it once at startup.
type Policies struct {
	limits map[Category]LimitConfig
}

// DefaultPolicies returns the production quota table.
func DefaultPolicies() *Policies {
	return NewPolicyBuilder().
		AddLimit(CategoryAPI, 60, time.Minute).
		AddLimit(CategoryAuth, 5, 15*time.Minute).
		AddLimit(CategoryCreateInterview, 5, time.Minute).
		AddLimit(CategorySendEmail, 10, time.Minute).
		AddLimit(CategoryGeneral, 30, time.Minute).
		Build()
}

// Limit returns the quota configured for c.
func (p *Policies) Limit(c Category) (LimitConfig, bool) {
	if p == nil {
		return LimitConfig{}, false
	}

	cfg, ok := p.limits[c]

	return cfg, ok
}

// Validate checks that every category has a positive window and maximum.
func (p *Policies) Validate() error {
	var errs []error

	for _, c := range Categories() {
		cfg, ok := p.Limit(c)

		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("%w: %s has no limit", ErrInvalidPolicy, c))
		case cfg.Window <= 0:
			errs = append(errs, fmt.Errorf("%w: %s window must be positive, got %s", ErrInvalidPolicy, c, cfg.Window))
		case cfg.Max <= 0:
			errs = append(errs, fmt.Errorf("%w: %s max must be positive, got %d", ErrInvalidPolicy, c, cfg.Max))
		}
	}

	return errors.Join(errs...)
}

// PolicyBuilder assembles a Policies table. The built table is never modified afterwards.
type PolicyBuilder struct {
	limits map[Category]LimitConfig
}

// NewPolicyBuilder creates an empty builder.
func NewPolicyBuilder() *PolicyBuilder {
	return &PolicyBuilder{limits: make(map[Category]LimitConfig)}
}

// AddLimit sets the quota for a category, replacing any earlier value.
func (b *PolicyBuilder) AddLimit(c Category, limit int, window time.Duration) *PolicyBuilder {
	b.limits[c] = LimitConfig{Window: window, Max: limit}

	return b
}

// Build returns the table. The builder can keep being used without affecting it.
func (b *PolicyBuilder) Build() *Policies {
	limits := make(map[Category]LimitConfig, len(b.limits))
	for c, cfg := range b.limits {
		limits[c] = cfg
	}

	return &Policies{limits: limits}
}

// Builder returns a builder seeded with p's limits.
func (p *Policies) Builder() *PolicyBuilder {
	b := NewPolicyBuilder()
	if p == nil {
		return b
	}

	for c, cfg := range p.limits {
		b.limits[c] = cfg
	}

	return b
}

// ApplyOverrides replaces quotas of base with comma separated "category=max/window"
// entries, e.g. "auth=10/15m,api=120/1m". The result must still validate.
func ApplyOverrides(base *Policies, overrides string) (*Policies, error) {
	b := base.Builder()

	for _, entry := range strings.Split(overrides, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		name, limit, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("%w: malformed override %q", ErrInvalidPolicy, entry)
		}

		c, err := ParseCategory(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}

		maxStr, windowStr, ok := strings.Cut(limit, "/")
		if !ok {
			return nil, fmt.Errorf("%w: override %q needs max/window", ErrInvalidPolicy, entry)
		}

		maxRequests, err := strconv.Atoi(strings.TrimSpace(maxStr))
		if err != nil {
			return nil, fmt.Errorf("%w: override %q: %w", ErrInvalidPolicy, entry, err)
		}

		window, err := time.ParseDuration(strings.TrimSpace(windowStr))
		if err != nil {
			return nil, fmt.Errorf("%w: override %q: %w", ErrInvalidPolicy, entry, err)
		}

		b.AddLimit(c, maxRequests, window)
	}

	policies := b.Build()
	if err := policies.Validate(); err != nil {
		return nil, err
	}

	return policies, nil
}
