package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	// DefaultLimit applies when a listing sets no limit.
	DefaultLimit = 50
	// MaxLimit bounds a single listing.
	MaxLimit = 500
)

// Service records what viewers do and answers "what happened recently".
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// LogActivity appends entry. A zero CreatedAt is set to the current time.
func (s *Service) LogActivity(ctx context.Context, tenantID string, entry *ActivityEntry) error {
	switch {
	case entry == nil, entry.SessionID == "":
		return ErrInvalidInput
	case !entry.ActivityType.Valid():
		return fmt.Errorf("%w: unknown type %q", ErrInvalidInput, entry.ActivityType)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	if err := s.repo.Log(ctx, tenantID, entry); err != nil {
		return fmt.Errorf("log activity: %w", err)
	}
	s.logger.DebugContext(ctx, "activity logged",
		"tenant", tenantID, "session", entry.SessionID, "type", entry.ActivityType)
	return nil
}

// GetRecentActivity lists entries newest first. The limit is defaulted and
// clamped to MaxLimit; a negative offset counts as zero. Filtering on an
// unknown type is ErrInvalidInput.
func (s *Service) GetRecentActivity(ctx context.Context, tenantID string, opts ListActivityOptions) ([]ActivityEntry, error) {
	if opts.ActivityType != nil && !opts.ActivityType.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidInput, *opts.ActivityType)
	}
	opts.Limit = min(opts.Limit, MaxLimit)
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	opts.Offset = max(opts.Offset, 0)

	entries, err := s.repo.List(ctx, tenantID, opts)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return entries, nil
}
