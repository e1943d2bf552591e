package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// HTTPAccountClient resolves emails against the accounts service. Implements
// domain.AccountDirectory.
type HTTPAccountClient struct {
	Address string
	client  *http.Client
}

func NewHTTPAccountClient(address string) (*HTTPAccountClient, error) {
	return &HTTPAccountClient{
		Address: address,
		client:  &http.Client{Timeout: 5 * time.Second},
	}, nil
}

type accountResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

// FindByEmail is lookup-or-none: 404 means (0, false, nil). Checkout must
// never fail because account matching did.
func (c *HTTPAccountClient) FindByEmail(ctx context.Context, email string) (uint, bool, error) {
	endpoint := fmt.Sprintf("%s/internal/accounts/lookup?email=%s", c.Address, url.QueryEscape(email))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, false, err
	}

	response, err := c.client.Do(req)
	if err != nil {
		return 0, false, err
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound {
		return 0, false, nil
	}

	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return 0, false, err
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		var account accountResponse
		if err := json.Unmarshal(responseBodyBytes, &account); err != nil {
			return 0, false, err
		}
		return account.ID, true, nil
	}

	return 0, false, fmt.Errorf("accounts service returned status %d", response.StatusCode)
}
