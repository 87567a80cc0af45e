package payment

import (
	"bytes"
	"context"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Gateway issues hosted-checkout transactions with the payment provider.
type Gateway interface {
	CreateTransaction(ctx context.Context, req SnapRequest) (*SnapTransaction, error)
}

type SnapRequest struct {
	TransactionDetails TransactionDetails `json:"transaction_details"`
	CustomerDetails    CustomerDetails    `json:"customer_details"`
	ItemDetails        []ItemDetail       `json:"item_details"`
}

type TransactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type CustomerDetails struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
}

type ItemDetail struct {
	ID       string `json:"id"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Name     string `json:"name"`
}

type SnapTransaction struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// snapClient talks to the Snap transactions endpoint with server-key basic
// auth.
type snapClient struct {
	url       string
	serverKey string
	client    *http.Client
}

func NewSnapGateway(url, serverKey string) Gateway {
	return &snapClient{
		url:       url,
		serverKey: serverKey,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *snapClient) CreateTransaction(ctx context.Context, snapReq SnapRequest) (*SnapTransaction, error) {
	if g.serverKey == "" {
		return nil, fmt.Errorf("gateway server key is not configured")
	}

	body, err := json.Marshal(snapReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snap payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(g.serverKey+":")))

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("snap request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("snap transaction rejected, status=%d body=%s", resp.StatusCode, string(respBody))
	}

	var tx SnapTransaction
	if err := json.Unmarshal(respBody, &tx); err != nil {
		return nil, fmt.Errorf("failed to decode snap response: %w", err)
	}
	return &tx, nil
}

// validSignature checks the webhook signature:
// sha512(order_id + status_code + gross_amount + server_key).
func validSignature(serverKey, orderID, statusCode, grossAmount, signature string) bool {
	h := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return strings.EqualFold(hex.EncodeToString(h[:]), signature)
}
