package signup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matt-dz/savorystories/internal/backend"
	"github.com/matt-dz/savorystories/internal/backend/backendtest"
	apphttp "github.com/matt-dz/savorystories/internal/http"
	"github.com/matt-dz/savorystories/internal/publish"
	"github.com/matt-dz/savorystories/internal/store"
)

const visitor = "visitor-1"

func newFlow(t *testing.T) (*Flow, *backendtest.Server, *store.Profiles) {
	t.Helper()
	srv := backendtest.New(t)
	client, err := backend.New(srv.URL, apphttp.New(apphttp.DefaultConfig()), nil)
	require.NoError(t, err)
	profiles := store.NewProfiles(store.NewMemory())
	return New(client, profiles, nil), srv, profiles
}

func registration() backend.Registration {
	return backend.Registration{Name: "Ada", Email: "ada@example.com", Password: "secret123"}
}

func TestStepNext(t *testing.T) {
	assert.Equal(t, StepProfile, StepAccount.Next())
	assert.Equal(t, StepDone, StepProfile.Next())
	assert.Equal(t, StepDone, StepDone.Next())
}

func TestAccountStoresChef(t *testing.T) {
	flow, _, profiles := newFlow(t)
	ctx := context.Background()

	session, err := flow.Account(ctx, visitor, registration())
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.NotEmpty(t, session.Chef.ID)

	stored, ok, err := profiles.Load(ctx, visitor)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", stored.Email)
}

func TestAccountConflictStoresNothing(t *testing.T) {
	flow, srv, profiles := newFlow(t)
	ctx := context.Background()
	srv.AddChef("Ada", "ada@example.com", "secret123")

	_, err := flow.Account(ctx, visitor, registration())
	require.Error(t, err)
	assert.Equal(t, "Email already registered", backend.Message(err, ""))

	_, ok, err := profiles.Load(ctx, visitor)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProfileWithAvatar(t *testing.T) {
	flow, srv, profiles := newFlow(t)
	ctx := context.Background()

	session, err := flow.Account(ctx, visitor, registration())
	require.NoError(t, err)
	authed := backend.WithToken(ctx, session.Token)

	chef, err := flow.Profile(authed, visitor,
		backend.ProfileUpdate{Name: "Ada L.", Bio: "Bakes bread"},
		&backend.Upload{Filename: "me.png", ContentType: "image/png", Data: []byte("png")},
	)
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", chef.Name)
	assert.NotEmpty(t, chef.Avatar)
	assert.Equal(t, "ada@example.com", chef.Email)

	remote, ok := srv.Chef(session.Chef.ID)
	require.True(t, ok)
	assert.Equal(t, "Bakes bread", remote.Bio)

	stored, _, err := profiles.Load(ctx, visitor)
	require.NoError(t, err)
	assert.Equal(t, chef.Name, stored.Name)
	assert.Equal(t, chef.Avatar, stored.Avatar)
	assert.Equal(t, "Bakes bread", stored.Bio)
}

func TestProfileAvatarFailureKeepsProfile(t *testing.T) {
	flow, srv, profiles := newFlow(t)
	ctx := context.Background()

	session, err := flow.Account(ctx, visitor, registration())
	require.NoError(t, err)
	srv.SetFailUploads(true)

	chef, err := flow.Profile(backend.WithToken(ctx, session.Token), visitor,
		backend.ProfileUpdate{Name: "Ada L.", Bio: "Bakes bread"},
		&backend.Upload{Filename: "me.png", ContentType: "image/png", Data: []byte("png")},
	)
	require.ErrorIs(t, err, publish.ErrImageNotAttached)
	assert.Equal(t, "Ada L.", chef.Name)
	assert.Empty(t, chef.Avatar)

	stored, _, err := profiles.Load(ctx, visitor)
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", stored.Name)
}

func TestProfileFailureKeepsAccount(t *testing.T) {
	flow, srv, _ := newFlow(t)
	ctx := context.Background()

	session, err := flow.Account(ctx, visitor, registration())
	require.NoError(t, err)
	srv.SetFailProfile(true)

	_, err = flow.Profile(backend.WithToken(ctx, session.Token), visitor,
		backend.ProfileUpdate{Name: "Ada L."}, nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, publish.ErrImageNotAttached)

	_, ok := srv.Chef(session.Chef.ID)
	assert.True(t, ok, "step one must not be rolled back")
}
