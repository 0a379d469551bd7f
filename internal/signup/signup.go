// Package signup runs the two step registration: the account is created
// first, then the chef completes the profile with the new session.
package signup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/matt-dz/savorystories/internal/backend"
	"github.com/matt-dz/savorystories/internal/log"
	"github.com/matt-dz/savorystories/internal/model"
	"github.com/matt-dz/savorystories/internal/publish"
	"github.com/matt-dz/savorystories/internal/store"
)

type Step int

const (
	StepAccount Step = iota + 1
	StepProfile
	StepDone
)

// Next is the step that follows a successful s.
func (s Step) Next() Step {
	if s >= StepDone {
		return StepDone
	}
	return s + 1
}

type Flow struct {
	backend  *backend.Client
	profiles *store.Profiles
	logger   *slog.Logger
}

func New(b *backend.Client, profiles *store.Profiles, logger *slog.Logger) *Flow {
	if logger == nil {
		logger = log.NullLogger()
	}
	return &Flow{backend: b, profiles: profiles, logger: logger}
}

// Account registers the chef and remembers the new profile for visitor.
// The returned session token must be handed to the browser before step two.
func (f *Flow) Account(ctx context.Context, visitor string, reg backend.Registration) (backend.Session, error) {
	session, err := f.backend.Register(ctx, reg)
	if err != nil {
		return session, err
	}
	if session.Token == "" {
		return session, fmt.Errorf("registering: %w", errNoSession)
	}
	f.remember(ctx, visitor, session.Chef)
	return session, nil
}

var errNoSession = errors.New("backend issued no session")

// Profile saves the profile details and, when avatar is not nil, uploads
// it afterwards. ctx must carry the session token from Account. An avatar
// failure keeps the saved profile and returns an error wrapping
// publish.ErrImageNotAttached. The account from step one is never undone.
func (f *Flow) Profile(
	ctx context.Context,
	visitor string,
	update backend.ProfileUpdate,
	avatar *backend.Upload,
) (model.Chef, error) {
	var attach func(context.Context, model.Chef) (model.Chef, error)
	if avatar != nil {
		attach = func(ctx context.Context, _ model.Chef) (model.Chef, error) {
			return f.backend.UploadAvatar(ctx, *avatar)
		}
	}

	chef, err := publish.WithImage(ctx, func(ctx context.Context) (model.Chef, error) {
		return f.backend.UpdateProfile(ctx, update)
	}, attach)
	if err != nil && !errors.Is(err, publish.ErrImageNotAttached) {
		return chef, err
	}
	return f.remember(ctx, visitor, chef), err
}

// remember stores chef for visitor on top of what is already known and
// returns the stored value. Store failures are logged only: the backend
// remains the source of truth.
func (f *Flow) remember(ctx context.Context, visitor string, chef model.Chef) model.Chef {
	if f.profiles == nil || visitor == "" {
		return chef
	}
	known, _, err := f.profiles.Load(ctx, visitor)
	if err != nil {
		f.logger.ErrorContext(ctx, "failed to load profile", slog.Any("error", err))
	}
	merged := known.Merge(chef)
	merged.Bio = chef.Bio
	if err := f.profiles.Set(ctx, visitor, merged); err != nil {
		f.logger.ErrorContext(ctx, "failed to store profile", slog.Any("error", err))
	}
	return merged
}
