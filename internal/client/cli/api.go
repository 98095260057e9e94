package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mpetrovs/trove/internal/common"
	"github.com/mpetrovs/trove/internal/server/auth"
)

// ErrRequestFailed reports a non-success response from the server.
var ErrRequestFailed = errors.New("request failed")

// APIClient is a thin HTTP client for the trove server. After Login it
// presents the issued token as a base64 bearer credential on every call.
type APIClient struct {
	baseURL string
	client  *http.Client
	bearer  string
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *APIClient) do(ctx context.Context, method, path string, payload any, out any) (int, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return 0, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.bearer != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+a.bearer)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}

	return resp.StatusCode, nil
}

func (a *APIClient) Register(ctx context.Context, firstName, lastName, email, password string) error {
	payload := map[string]string{
		"first_name": firstName,
		"last_name":  lastName,
		"email":      email,
		"password":   password,
	}

	code, err := a.do(ctx, http.MethodPost, "/api/register", payload, nil)
	if err != nil {
		return err
	}
	if code != http.StatusCreated {
		return fmt.Errorf("%w: status %d", ErrRequestFailed, code)
	}

	return nil
}

// Login authenticates and remembers the issued token for subsequent calls.
func (a *APIClient) Login(ctx context.Context, email, password string) error {
	payload := map[string]string{"email": email, "password": password}

	var result struct {
		Token string `json:"token"`
	}

	code, err := a.do(ctx, http.MethodPost, "/api/login", payload, &result)
	if err != nil {
		return err
	}
	if code != http.StatusCreated {
		return fmt.Errorf("%w: status %d", ErrRequestFailed, code)
	}

	a.bearer = auth.EncodeBearer(result.Token)
	return nil
}

func (a *APIClient) Revoke(ctx context.Context) error {
	code, err := a.do(ctx, http.MethodPost, "/api/revoke", nil, nil)
	if err != nil {
		return err
	}
	if code != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrRequestFailed, code)
	}

	a.bearer = ""
	return nil
}

func (a *APIClient) TroveGet(ctx context.Context) (string, error) {
	var result struct {
		TroveText string `json:"trove_text"`
	}

	code, err := a.do(ctx, http.MethodGet, "/api/trove", nil, &result)
	if err != nil {
		return "", err
	}
	if code != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrRequestFailed, code)
	}

	return result.TroveText, nil
}

func (a *APIClient) TroveSave(ctx context.Context, text string) error {
	payload := map[string]string{"trove_text": text}

	code, err := a.do(ctx, http.MethodPost, "/api/trove", payload, nil)
	if err != nil {
		return err
	}
	if code != http.StatusCreated {
		return fmt.Errorf("%w: status %d", ErrRequestFailed, code)
	}

	return nil
}

func (a *APIClient) isLoggedIn() bool {
	return a.bearer != ""
}
