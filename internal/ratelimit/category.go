package ratelimit

import (
	"errors"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
)

// ErrUnknownCategory is returned when a category name does not match any known category.
var ErrUnknownCategory = errors.New("unknown rate limit category")

// Category classifies the operation being guarded. Each category has its own
// quota and its own counters.
type Category int

const (
	// CategoryAPI covers general API traffic such as reads.
	CategoryAPI Category = iota + 1
	// CategoryAuth covers authentication attempts.
	CategoryAuth
	// CategoryCreateInterview covers scheduling new interviews.
	CategoryCreateInterview
	// CategorySendEmail covers outbound email.
	CategorySendEmail
	// CategoryGeneral covers other state-changing actions such as comments.
	CategoryGeneral
)

var categoryNames = map[Category]string{
	CategoryAPI:             "api",
	CategoryAuth:            "auth",
	CategoryCreateInterview: "create_interview",
	CategorySendEmail:       "send_email",
	CategoryGeneral:         "general",
}

// Categories returns every known category in declaration order.
func Categories() []Category {
	return []Category{
		CategoryAPI,
		CategoryAuth,
		CategoryCreateInterview,
		CategorySendEmail,
		CategoryGeneral,
	}
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}

	return fmt.Sprintf("category(%d)", int(c))
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]

	return ok
}

// ParseCategory returns the category with the given name.
func ParseCategory(name string) (Category, error) {
	for c, n := range categoryNames {
		if n == name {
			return c, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

// MetadataKey is the key used to store rate limit config in operation metadata.
const MetadataKey = "rateLimit"

// EndpointConfig selects the quota applied to a Huma operation.
// Attach it through the operation's Metadata under MetadataKey.
type EndpointConfig struct {
	// Category is the quota the endpoint consumes. Zero means DefaultCategory.
	Category Category

	// Disabled skips rate limiting entirely for this endpoint.
	Disabled bool
}

// DefaultCategory is used for operations that do not declare a category.
const DefaultCategory = CategoryAPI

// Metadata returns an operation metadata map carrying cfg.
func (cfg EndpointConfig) Metadata() map[string]any {
	return map[string]any{MetadataKey: cfg}
}

// GetEndpointConfig extracts the EndpointConfig from operation metadata, if present.
func GetEndpointConfig(ctx huma.Context) *EndpointConfig {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return nil
	}

	cfg, ok := op.Metadata[MetadataKey].(EndpointConfig)
	if !ok {
		return nil
	}

	return &cfg
}

// CategoryFor returns the category an operation consumes, falling back to DefaultCategory.
func CategoryFor(ctx huma.Context) Category {
	if cfg := GetEndpointConfig(ctx); cfg != nil && cfg.Category != 0 {
		return cfg.Category
	}

	return DefaultCategory
}
