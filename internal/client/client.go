// Package client provides a typed HTTP client for the trading API.
package client

import (
	"fmt"

	"crypto-trade-sim-go/internal/models"
	"crypto-trade-sim-go/internal/performance"
	"crypto-trade-sim-go/internal/portfolio"
	"crypto-trade-sim-go/internal/trading"
	"github.com/go-resty/resty/v2"
)

// Client talks to a running trading API server.
type Client struct {
	http *resty.Client
}

// New creates a new API client for the given base URL.
func New(baseURL string) *Client {
	return &Client{http: resty.New().SetBaseURL(baseURL)}
}

// apiError is the error payload every endpoint returns on failure.
type apiError struct {
	Message string `json:"error"`
}

func (c *Client) execute(method, url string, req *resty.Request) (*resty.Response, error) {
	resp, err := req.SetError(&apiError{}).Execute(method, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		if apiErr, ok := resp.Error().(*apiError); ok && apiErr.Message != "" {
			return nil, fmt.Errorf("api error (%s): %s", resp.Status(), apiErr.Message)
		}
		return nil, fmt.Errorf("request failed with status %s: %s", resp.Status(), resp.String())
	}
	return resp, nil
}

// ListCoins fetches all coins; the server walks prices before responding.
func (c *Client) ListCoins() ([]models.Coin, error) {
	var coins []models.Coin
	req := c.http.R().SetResult(&coins)
	if _, err := c.execute(resty.MethodGet, "/api/coins", req); err != nil {
		return nil, fmt.Errorf("failed to list coins: %w", err)
	}
	return coins, nil
}

// Buy purchases amount units of a coin for a user.
func (c *Client) Buy(userID, coinID string, amount float64) (*trading.BuyResult, error) {
	req := c.http.R().
		SetBody(map[string]interface{}{
			"userId": userID,
			"coinId": coinID,
			"amount": amount,
		}).
		SetResult(&trading.BuyResult{})
	resp, err := c.execute(resty.MethodPost, "/api/coins", req)
	if err != nil {
		return nil, fmt.Errorf("failed to buy coin: %w", err)
	}
	return resp.Result().(*trading.BuyResult), nil
}

// Signup registers a new user.
func (c *Client) Signup(name, email, password string) (*models.User, error) {
	req := c.http.R().
		SetBody(map[string]string{
			"name":     name,
			"email":    email,
			"password": password,
		}).
		SetResult(&models.User{})
	resp, err := c.execute(resty.MethodPost, "/api/auth/signup", req)
	if err != nil {
		return nil, fmt.Errorf("failed to sign up: %w", err)
	}
	return resp.Result().(*models.User), nil
}

// User fetches a user's profile record.
func (c *Client) User(userID string) (*models.User, error) {
	req := c.http.R().
		SetQueryParam("userId", userID).
		SetResult(&models.User{})
	resp, err := c.execute(resty.MethodGet, "/api/user", req)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return resp.Result().(*models.User), nil
}

// UserCoins fetches the user's holdings joined with their coins.
func (c *Client) UserCoins(userID string) ([]models.Holding, error) {
	var holdings []models.Holding
	req := c.http.R().
		SetQueryParam("userId", userID).
		SetResult(&holdings)
	if _, err := c.execute(resty.MethodGet, "/api/user/coins", req); err != nil {
		return nil, fmt.Errorf("failed to get user coins: %w", err)
	}
	return holdings, nil
}

// Performance fetches the synthesized portfolio performance report.
func (c *Client) Performance(userID string) (*portfolio.Report, error) {
	req := c.http.R().
		SetQueryParam("userId", userID).
		SetResult(&portfolio.Report{})
	resp, err := c.execute(resty.MethodGet, "/api/user/performance", req)
	if err != nil {
		return nil, fmt.Errorf("failed to get performance: %w", err)
	}
	return resp.Result().(*portfolio.Report), nil
}

// History fetches the simulated trade-history series.
func (c *Client) History(userID string) (*performance.Series, error) {
	req := c.http.R().
		SetQueryParam("userId", userID).
		SetResult(&performance.Series{})
	resp, err := c.execute(resty.MethodGet, "/api/user/history", req)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	return resp.Result().(*performance.Series), nil
}
