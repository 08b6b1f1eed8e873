package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPProvider speaks to a local wallet-bridge process over JSON/HTTP. The
// bridge owns key material and transaction signing; this client only carries
// payloads across.
type HTTPProvider struct {
	baseURL    string
	httpClient *http.Client
}

type HTTPProviderConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

func NewHTTPProvider(config HTTPProviderConfig) *HTTPProvider {
	timeout := config.RequestTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &HTTPProvider{
		baseURL: config.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type bridgeResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error,omitempty"`
}

func (p *HTTPProvider) Connect(ctx context.Context) (Account, error) {
	var account Account
	if err := p.call(ctx, http.MethodPost, "/v1/connect", nil, &account); err != nil {
		return Account{}, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	return account, nil
}

func (p *HTTPProvider) Disconnect(ctx context.Context) error {
	if err := p.call(ctx, http.MethodPost, "/v1/disconnect", nil, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	return nil
}

func (p *HTTPProvider) Account(ctx context.Context) (Account, error) {
	var account Account
	if err := p.call(ctx, http.MethodGet, "/v1/account", nil, &account); err != nil {
		return Account{}, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	return account, nil
}

func (p *HTTPProvider) SignAndSubmitTransaction(ctx context.Context, payload EntryFunctionPayload) (TxnHandle, error) {
	var handle TxnHandle
	if err := p.call(ctx, http.MethodPost, "/v1/transactions", payload, &handle); err != nil {
		return TxnHandle{}, err
	}
	return handle, nil
}

func (p *HTTPProvider) View(ctx context.Context, req ViewRequest) ([]json.RawMessage, error) {
	var values []json.RawMessage
	if err := p.call(ctx, http.MethodPost, "/v1/view", req, &values); err != nil {
		return nil, err
	}
	return values, nil
}

func (p *HTTPProvider) call(ctx context.Context, method, path string, body, dest interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bridge request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read bridge response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("bridge returned status %d: %s", resp.StatusCode, string(data))
	}

	var envelope bridgeResponse
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("failed to decode bridge response: %w", err)
	}

	if !envelope.Success {
		return fmt.Errorf("bridge rejected call: %s", envelope.Error)
	}

	if dest != nil {
		if err := json.Unmarshal(envelope.Data, dest); err != nil {
			return fmt.Errorf("failed to decode bridge payload: %w", err)
		}
	}

	return nil
}
