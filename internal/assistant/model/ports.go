package model

import (
	"context"
	"errors"
	"time"
)

// ErrEmptyGeneration is returned by a TextGenerator that produced no text.
var ErrEmptyGeneration = errors.New("text generator returned an empty response")

// ContentRepository is read-only access to site content. Lookups that can
// miss return found=false with a nil error.
type ContentRepository interface {
	FindPostsByTitleOrBodyContains(ctx context.Context, substring string, limit int) ([]PostSummary, error)
	GetPostByID(ctx context.Context, id int64, commentLimit int) (PostDetails, bool, error)
	FindUserByUsername(ctx context.Context, username string) (UserProfile, bool, error)
	GetUserByID(ctx context.Context, id int64, limit int) (UserActivity, bool, error)
	ListRecentPostsByAuthor(ctx context.Context, authorID int64, limit int) ([]PostSummary, error)
	ListFollowedIDs(ctx context.Context, subscriberID int64) ([]int64, error)
	RankActiveAuthors(ctx context.Context, excludeUserID int64, excludeIDs []int64, limit int) ([]AuthorCandidate, error)
	GetProfileStats(ctx context.Context, userID int64) (ProfileStats, error)
}

// TextGenerator is the opaque language model.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// RateStore keeps rate-limit windows keyed by identity.
type RateStore interface {
	Get(ctx context.Context, key string) ([]time.Time, error)
	Set(ctx context.Context, key string, window []time.Time, ttl time.Duration) error
}

// AtomicRateStore can prune, count and record in one step.
type AtomicRateStore interface {
	RateStore
	CheckAndRecord(ctx context.Context, key string, now time.Time, max int, window time.Duration) (allowed bool, count int, err error)
}
