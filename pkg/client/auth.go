package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/offybox/offyadmin/pkg/domain"
)

// LoginUser is the identity returned alongside a login token.
type LoginUser struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// LoginResponse is the backend's answer to POST /support/login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt int64     `json:"expiresAt,omitempty"`
	User      LoginUser `json:"user"`
}

// UnmarshalJSON accepts both camelCase and snake_case field names, since the
// support backend is not consistent about them.
func (r *LoginResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		Token       string `json:"token"`
		AccessToken string `json:"access_token"`
		ExpiresAt   int64  `json:"expiresAt"`
		ExpiresAtSC int64  `json:"expires_at"`
		User        struct {
			ID          string `json:"id"`
			FirstName   string `json:"firstName"`
			FirstNameSC string `json:"first_name"`
			LastName    string `json:"lastName"`
			LastNameSC  string `json:"last_name"`
			Email       string `json:"email"`
		} `json:"user"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Token = firstNonEmpty(raw.Token, raw.AccessToken)
	r.ExpiresAt = raw.ExpiresAt
	if r.ExpiresAt == 0 {
		r.ExpiresAt = raw.ExpiresAtSC
	}
	r.User = LoginUser{
		ID:        raw.User.ID,
		FirstName: firstNonEmpty(raw.User.FirstName, raw.User.FirstNameSC),
		LastName:  firstNonEmpty(raw.User.LastName, raw.User.LastNameSC),
		Email:     raw.User.Email,
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Login exchanges credentials for a session token. A 401 here is reported as
// KindAuthRejected and never ends an existing session.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var resp LoginResponse
	err := c.doRequest(ctx, request{method: http.MethodPost, path: "/support/login", body: body, exempt: true}, &resp)
	if err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("client.Login: %w", &Error{Kind: KindServer, Message: "login response carried no token"})
	}
	return &resp, nil
}

// CreateUser registers a new support user. Exempt from forced logout.
func (c *Client) CreateUser(ctx context.Context, p domain.UserProfile) (*domain.SupportUser, error) {
	var u domain.SupportUser
	err := c.doRequest(ctx, request{method: http.MethodPost, path: "/support/users", body: p, exempt: true}, &u)
	if err != nil {
		return nil, fmt.Errorf("client.CreateUser: %w", err)
	}
	return &u, nil
}

// ForgotPassword asks the backend to send a reset link to email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	if err := c.post(ctx, "/support/forgot-password", map[string]string{"email": email}, nil); err != nil {
		return fmt.Errorf("client.ForgotPassword: %w", err)
	}
	return nil
}
