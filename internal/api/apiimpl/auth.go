package apiimpl

import (
	"context"
	"net/http"
	"net/url"

	"github.com/minhnghia2k3/lumigram/internal/domain"
)

func (c *ApiImpl) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/login", nil, req, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *ApiImpl) Signup(ctx context.Context, req domain.SignupRequest) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/signup", nil, req, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *ApiImpl) Me(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := c.get(ctx, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *ApiImpl) CreatePersonalInfo(ctx context.Context, info domain.PersonalInfo) error {
	return c.do(ctx, http.MethodPost, "/personal-information/", nil, info, nil, true)
}

func (c *ApiImpl) UsernameSuggestions(ctx context.Context, baseName string) ([]string, error) {
	query := url.Values{"base_name": {baseName}}
	var resp struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := c.do(ctx, http.MethodGet, "/username-suggestions/", query, nil, &resp, false); err != nil {
		return nil, err
	}
	return resp.Suggestions, nil
}

func (c *ApiImpl) ForgotPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/forgot-password/", nil, body, nil, false)
}

func (c *ApiImpl) ResetPassword(ctx context.Context, newPassword string) error {
	body := map[string]string{"password": newPassword}
	return c.do(ctx, http.MethodPost, "/reset-password/", nil, body, nil, true)
}
