package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

var errNotFound = errors.New("not found")

// HTTPUserClient reads KYC state and bank accounts from the user service.
type HTTPUserClient struct {
	Address string
	http    *http.Client
}

func NewHTTPUserClient(address string, timeout time.Duration) *HTTPUserClient {
	return &HTTPUserClient{
		Address: strings.TrimRight(address, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// HasCompletedKYC requires both a verified phone number and a verified ID document.
func (c *HTTPUserClient) HasCompletedKYC(ctx context.Context, userID string) (bool, error) {
	var profile profileResponse
	err := c.get(ctx, fmt.Sprintf("%s/users/%s/profile", c.Address, url.PathEscape(userID)), &profile)
	if errors.Is(err, errNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return profile.PhoneVerified && profile.IDDocumentVerified, nil
}

func (c *HTTPUserClient) GetDefaultBankAccount(ctx context.Context, userID string) (*domain.BankAccount, error) {
	var account bankAccountResponse
	err := c.get(ctx, fmt.Sprintf("%s/users/%s/bank-accounts/default", c.Address, url.PathEscape(userID)), &account)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.BankAccount{
		ID:            account.ID,
		UserID:        userID,
		BankCode:      account.BankCode,
		AccountNumber: account.AccountNumber,
		AccountName:   account.AccountName,
	}, nil
}

func (c *HTTPUserClient) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	response, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return json.Unmarshal(responseBodyBytes, out)
	}
	var errResp errorResponse
	if err := json.Unmarshal(responseBodyBytes, &errResp); err != nil || errResp.Error == "" {
		return fmt.Errorf("user service returned status %d", response.StatusCode)
	}
	return errors.New(errResp.Error)
}
