package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/matt-dz/savorystories/internal/model"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Bio      string `json:"bio,omitempty"`
}

// Session is the result of a successful login or registration. Token is the
// value of the jwt cookie set by the backend, to be relayed to the browser.
type Session struct {
	Chef  model.Chef
	Token string
}

type ProfileUpdate struct {
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (c *Client) authenticate(ctx context.Context, path string, payload any) (Session, error) {
	var env model.Envelope[model.Chef]
	resp, err := c.sendJSON(ctx, http.MethodPost, path, payload, &env)
	if err != nil {
		return Session{}, err
	}
	return Session{Chef: env.Data, Token: sessionToken(resp)}, nil
}

// Register creates the chef account.
func (c *Client) Register(ctx context.Context, reg Registration) (Session, error) {
	session, err := c.authenticate(ctx, "auth/register", reg)
	if err != nil {
		return session, fmt.Errorf("registering: %w", err)
	}
	return session, nil
}

func (c *Client) Login(ctx context.Context, creds Credentials) (Session, error) {
	session, err := c.authenticate(ctx, "auth/login", creds)
	if err != nil {
		return session, fmt.Errorf("logging in: %w", err)
	}
	return session, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.getJSON(ctx, "auth/logout", nil, nil); err != nil {
		return fmt.Errorf("logging out: %w", err)
	}
	return nil
}

// UpdateProfile saves the name and bio of the authenticated chef.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (model.Chef, error) {
	var env model.Envelope[model.Chef]
	if _, err := c.sendJSON(ctx, http.MethodPatch, "profile", update, &env); err != nil {
		return env.Data, fmt.Errorf("updating profile: %w", err)
	}
	return env.Data, nil
}

// UploadAvatar replaces the avatar of the authenticated chef.
func (c *Client) UploadAvatar(ctx context.Context, file Upload) (model.Chef, error) {
	var env model.Envelope[model.Chef]
	if err := c.upload(ctx, "profile/avatar", "avatar", file, &env); err != nil {
		return env.Data, fmt.Errorf("uploading avatar: %w", err)
	}
	return env.Data, nil
}

func (c *Client) ChangePassword(ctx context.Context, change PasswordChange) error {
	if _, err := c.sendJSON(ctx, http.MethodPatch, "profile/password", change, nil); err != nil {
		return fmt.Errorf("changing password: %w", err)
	}
	return nil
}

func (c *Client) DeleteAccount(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "profile/delete-account", nil, nil, "")
	if err != nil {
		return err
	}
	if _, err := c.send(req, nil); err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}
	return nil
}

// Subscribe adds email to the newsletter and returns the server message.
func (c *Client) Subscribe(ctx context.Context, email string) (string, error) {
	var body struct {
		Message string `json:"message"`
	}
	payload := struct {
		Email string `json:"email"`
	}{Email: email}
	if _, err := c.sendJSON(ctx, http.MethodPost, "subscribe", payload, &body); err != nil {
		return "", fmt.Errorf("subscribing: %w", err)
	}
	return body.Message, nil
}
