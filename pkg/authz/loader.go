package authz

import (
	"context"
	"errors"
	"log/slog"

	"github.com/convoyrelief/convoyd/pkg/identity"
	"github.com/convoyrelief/convoyd/pkg/server/store"
)

// Loader resolves the subject named by a verified credential into an
// authorization profile.
type Loader struct {
	subjects  store.SubjectStore
	superRole string
	cache     ProfileCache
	logger    *slog.Logger
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithCache serves profiles from c before falling back to the store.
// Without it every Load reads the store.
func WithCache(c ProfileCache) LoaderOption {
	return func(l *Loader) {
		l.cache = c
	}
}

// WithLogger sets the logger used for cache faults.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a Loader. superRole names the role that bypasses
// permission checks.
func NewLoader(subjects store.SubjectStore, superRole string, opts ...LoaderOption) *Loader {
	l := &Loader{
		subjects:  subjects,
		superRole: superRole,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches the subject with its roles and permissions.
//
// A subject that no longer exists yields ErrAuthenticationRequired, an
// inactive one ErrAccountInactive. Storage faults yield ErrSystem wrapping
// the cause.
func (l *Loader) Load(ctx context.Context, subjectID string) (*identity.Profile, error) {
	if subjectID == "" {
		return nil, ErrAuthenticationRequired
	}

	if l.cache != nil {
		cached, err := l.cache.Get(ctx, subjectID)
		if err != nil {
			l.logger.WarnContext(ctx, "profile cache read failed", "subject", subjectID, "error", err)
		} else if cached != nil && cached.IsActive {
			return cached, nil
		}
	}

	user, err := l.subjects.FindSubjectByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAuthenticationRequired.Wrap(err)
		}
		return nil, ErrSystem.Wrap(err)
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	profile := identity.FromUser(user, l.superRole)

	if l.cache != nil {
		if err := l.cache.Set(ctx, profile); err != nil {
			l.logger.WarnContext(ctx, "profile cache write failed", "subject", subjectID, "error", err)
		}
	}
	return profile, nil
}

// Caching reports whether profiles are served from a cache
func (l *Loader) Caching() bool {
	return l.cache != nil
}

// Invalidate drops any cached profile of the subject. It is a no-op
// without a cache.
func (l *Loader) Invalidate(ctx context.Context, subjectID string) error {
	if l.cache == nil {
		return nil
	}
	return l.cache.Invalidate(ctx, subjectID)
}
