package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/serroba/videosync-go/internal/interview"
	"go.uber.org/zap"
)

// RedisCacheRepository wraps a Repository with Redis caching for interview reads.
type RedisCacheRepository struct {
	store  interview.Repository
	client redis.Cmdable
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCacheRepository creates a new Redis-cached repository decorator.
func NewRedisCacheRepository(
	store interview.Repository, client redis.Cmdable, ttl time.Duration, logger *zap.Logger,
) *RedisCacheRepository {
	return &RedisCacheRepository{
		store:  store,
		client: client,
		prefix: "interview:",
		ttl:    ttl,
		logger: logger,
	}
}

// cachedInterview is the JSON shape stored in Redis.
type cachedInterview struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	StartTime      time.Time  `json:"startTime"`
	EndTime        *time.Time `json:"endTime,omitempty"`
	Status         string     `json:"status"`
	CallID         string     `json:"callId"`
	CandidateEmail string     `json:"candidateEmail"`
	CandidateName  string     `json:"candidateName"`
	InterviewerIDs []string   `json:"interviewerIds"`
	CreatedBy      string     `json:"createdBy"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Save stores an interview in the underlying store and updates the cache.
func (r *RedisCacheRepository) Save(ctx context.Context, iv *interview.Interview) error {
	if err := r.store.Save(ctx, iv); err != nil {
		return err
	}

	// Write-through: update cache after successful save
	r.cacheInterview(ctx, iv)

	return nil
}

// GetByID retrieves an interview, checking the cache first.
func (r *RedisCacheRepository) GetByID(ctx context.Context, id uuid.UUID) (*interview.Interview, error) {
	if iv, err := r.getFromCache(ctx, id); err == nil {
		return iv, nil
	}

	// Cache miss - fetch from store
	iv, err := r.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.cacheInterview(ctx, iv)

	return iv, nil
}

// List always reads from the underlying store.
func (r *RedisCacheRepository) List(ctx context.Context) ([]*interview.Interview, error) {
	return r.store.List(ctx)
}

func (r *RedisCacheRepository) AddComment(ctx context.Context, c *interview.Comment) error {
	return r.store.AddComment(ctx, c)
}

func (r *RedisCacheRepository) ListComments(ctx context.Context, id uuid.UUID) ([]*interview.Comment, error) {
	return r.store.ListComments(ctx, id)
}

func (r *RedisCacheRepository) getFromCache(ctx context.Context, id uuid.UUID) (*interview.Interview, error) {
	raw, err := r.client.Get(ctx, r.prefix+id.String()).Bytes()
	if err != nil {
		return nil, err
	}

	var c cachedInterview
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}

	return &interview.Interview{
		ID:             c.ID,
		Title:          c.Title,
		Description:    c.Description,
		StartTime:      c.StartTime,
		EndTime:        c.EndTime,
		Status:         interview.Status(c.Status),
		CallID:         c.CallID,
		CandidateEmail: c.CandidateEmail,
		CandidateName:  c.CandidateName,
		InterviewerIDs: c.InterviewerIDs,
		CreatedBy:      c.CreatedBy,
		CreatedAt:      c.CreatedAt,
	}, nil
}

func (r *RedisCacheRepository) cacheInterview(ctx context.Context, iv *interview.Interview) {
	payload, err := json.Marshal(cachedInterview{
		ID:             iv.ID,
		Title:          iv.Title,
		Description:    iv.Description,
		StartTime:      iv.StartTime,
		EndTime:        iv.EndTime,
		Status:         string(iv.Status),
		CallID:         iv.CallID,
		CandidateEmail: iv.CandidateEmail,
		CandidateName:  iv.CandidateName,
		InterviewerIDs: iv.InterviewerIDs,
		CreatedBy:      iv.CreatedBy,
		CreatedAt:      iv.CreatedAt,
	})
	if err != nil {
		return
	}

	if err := r.client.Set(ctx, r.prefix+iv.ID.String(), payload, r.ttl).Err(); err != nil {
		r.logger.Warn("failed to cache interview", zap.String("id", iv.ID.String()), zap.Error(err))
	}
}

// Shutdown is a no-op for RedisCacheRepository (client managed externally).
func (r *RedisCacheRepository) Shutdown() error {
	return nil
}

// Compile-time check.
var _ interview.Repository = (*RedisCacheRepository)(nil)
