package carrier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"radagast/internal/config"
	"radagast/internal/dto"
	apperrors "radagast/internal/errors"
)

const (
	authPath        = "/v1/external/auth/login"
	createOrderPath = "/v1/external/orders/create/adhoc"
	showOrderPath   = "/v1/external/orders/show/"
)

// Client talks to the carrier's REST API. All calls share one http.Client
// with the configured per-call timeout; there is no retry here, the
// provisioning workflow owns its own bounded fallback.
type Client struct {
	baseURL    string
	email      string
	password   string
	httpClient *http.Client
}

func NewClient(cfg config.CarrierConfig) *Client {
	return &Client{
		baseURL:  cfg.BaseURL,
		email:    cfg.Email,
		password: cfg.Password,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (c *Client) Authenticate(ctx context.Context) (string, error) {
	body, err := json.Marshal(dto.CarrierAuthRequest{
		Email:    c.email,
		Password: c.password,
	})
	if err != nil {
		return "", fmt.Errorf("encoding auth request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+authPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling carrier auth: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.NewCarrierError(resp.StatusCode, readBodySnippet(resp.Body))
	}

	var authResp dto.CarrierAuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		return "", fmt.Errorf("decoding auth response: %w", err)
	}
	if authResp.Token == "" {
		return "", apperrors.NewCarrierError(resp.StatusCode, "auth response missing token")
	}

	return authResp.Token, nil
}

func (c *Client) CreateOrder(ctx context.Context, token string, orderReq dto.CarrierOrderRequest) (*dto.CarrierOrderResponse, error) {
	body, err := json.Marshal(orderReq)
	if err != nil {
		return nil, fmt.Errorf("encoding carrier order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+createOrderPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building carrier order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling carrier order create: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewCarrierError(resp.StatusCode, readBodySnippet(resp.Body))
	}

	var orderResp dto.CarrierOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&orderResp); err != nil {
		return nil, fmt.Errorf("decoding carrier order response: %w", err)
	}

	return &orderResp, nil
}

func (c *Client) GetOrder(ctx context.Context, token, carrierOrderID string) (*dto.CarrierTrackingResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+showOrderPath+carrierOrderID, nil)
	if err != nil {
		return nil, fmt.Errorf("building carrier tracking request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling carrier tracking: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewCarrierError(resp.StatusCode, readBodySnippet(resp.Body))
	}

	var trackingResp dto.CarrierTrackingResponse
	if err := json.NewDecoder(resp.Body).Decode(&trackingResp); err != nil {
		return nil, fmt.Errorf("decoding carrier tracking response: %w", err)
	}

	return &trackingResp, nil
}

// readBodySnippet keeps error payloads bounded; carrier error bodies are
// recorded verbatim into the order's carrier-status column on failure.
func readBodySnippet(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil || len(b) == 0 {
		return "no response body"
	}
	return string(b)
}
