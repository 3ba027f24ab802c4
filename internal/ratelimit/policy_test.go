package ratelimit_test

import (
	"testing"
	"time"

	"github.com/serroba/videosync-go/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicies(t *testing.T) {
	policies := ratelimit.DefaultPolicies()

	require.NoError(t, policies.Validate())

	tests := []struct {
		category ratelimit.Category
		max      int
		window   time.Duration
	}{
		{ratelimit.CategoryAPI, 60, time.Minute},
		{ratelimit.CategoryAuth, 5, 15 * time.Minute},
		{ratelimit.CategoryCreateInterview, 5, time.Minute},
		{ratelimit.CategorySendEmail, 10, time.Minute},
		{ratelimit.CategoryGeneral, 30, time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.category.String(), func(t *testing.T) {
			cfg, ok := policies.Limit(tt.category)

			require.True(t, ok)
			assert.Equal(t, tt.max, cfg.Max)
			assert.Equal(t, tt.window, cfg.Window)
		})
	}
}

func TestPolicies_Validate(t *testing.T) {
	full := func() *ratelimit.PolicyBuilder {
		b := ratelimit.NewPolicyBuilder()
		for _, c := range ratelimit.Categories() {
			b.AddLimit(c, 10, time.Minute)
		}

		return b
	}

	t.Run("accepts a complete table", func(t *testing.T) {
		assert.NoError(t, full().Build().Validate())
	})

	t.Run("rejects a missing category", func(t *testing.T) {
		policies := ratelimit.NewPolicyBuilder().
			AddLimit(ratelimit.CategoryAPI, 10, time.Minute).
			Build()

		err := policies.Validate()

		require.ErrorIs(t, err, ratelimit.ErrInvalidPolicy)
		assert.Contains(t, err.Error(), "auth has no limit")
	})

	t.Run("rejects a non-positive window", func(t *testing.T) {
		err := full().AddLimit(ratelimit.CategoryAuth, 5, 0).Build().Validate()

		require.ErrorIs(t, err, ratelimit.ErrInvalidPolicy)
		assert.Contains(t, err.Error(), "window must be positive")
	})

	t.Run("rejects a non-positive max", func(t *testing.T) {
		err := full().AddLimit(ratelimit.CategorySendEmail, -1, time.Minute).Build().Validate()

		require.ErrorIs(t, err, ratelimit.ErrInvalidPolicy)
		assert.Contains(t, err.Error(), "max must be positive")
	})
}

func TestPolicyBuilder_BuildIsIsolated(t *testing.T) {
	b := ratelimit.NewPolicyBuilder().AddLimit(ratelimit.CategoryAPI, 10, time.Minute)
	policies := b.Build()

	b.AddLimit(ratelimit.CategoryAPI, 1, time.Second)

	cfg, _ := policies.Limit(ratelimit.CategoryAPI)

	assert.Equal(t, 10, cfg.Max, "built table must not change")
}

func TestApplyOverrides(t *testing.T) {
	t.Run("replaces only the named categories", func(t *testing.T) {
		policies, err := ratelimit.ApplyOverrides(ratelimit.DefaultPolicies(), "auth=10/30m, api=120/1m")

		require.NoError(t, err)

		auth, _ := policies.Limit(ratelimit.CategoryAuth)
		assert.Equal(t, ratelimit.LimitConfig{Window: 30 * time.Minute, Max: 10}, auth)

		api, _ := policies.Limit(ratelimit.CategoryAPI)
		assert.Equal(t, 120, api.Max)

		email, _ := policies.Limit(ratelimit.CategorySendEmail)
		assert.Equal(t, ratelimit.LimitConfig{Window: time.Minute, Max: 10}, email)
	})

	t.Run("empty overrides keep the base table", func(t *testing.T) {
		policies, err := ratelimit.ApplyOverrides(ratelimit.DefaultPolicies(), "")

		require.NoError(t, err)

		general, _ := policies.Limit(ratelimit.CategoryGeneral)
		assert.Equal(t, 30, general.Max)
	})

	t.Run("does not modify the base table", func(t *testing.T) {
		base := ratelimit.DefaultPolicies()

		_, err := ratelimit.ApplyOverrides(base, "api=1/1s")
		require.NoError(t, err)

		api, _ := base.Limit(ratelimit.CategoryAPI)
		assert.Equal(t, 60, api.Max)
	})

	t.Run("rejects unknown categories", func(t *testing.T) {
		_, err := ratelimit.ApplyOverrides(ratelimit.DefaultPolicies(), "uploads=5/1m")

		require.ErrorIs(t, err, ratelimit.ErrUnknownCategory)
	})

	t.Run("rejects malformed and invalid entries", func(t *testing.T) {
		for _, overrides := range []string{"auth", "auth=5", "auth=x/1m", "auth=5/soon", "auth=0/1m", "auth=5/-1m"} {
			_, err := ratelimit.ApplyOverrides(ratelimit.DefaultPolicies(), overrides)

			require.ErrorIs(t, err, ratelimit.ErrInvalidPolicy, overrides)
		}
	})
}
