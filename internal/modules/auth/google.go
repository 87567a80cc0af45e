package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// googleTokenVerifier validates ID tokens against Google's tokeninfo
// endpoint.
type googleTokenVerifier struct {
	endpoint string
	clientID string
	client   *http.Client
}

func NewGoogleVerifier(endpoint, clientID string) GoogleVerifier {
	return &googleTokenVerifier{
		endpoint: endpoint,
		clientID: clientID,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type tokenInfoResponse struct {
	Aud           string `json:"aud"`
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
}

func (v *googleTokenVerifier) Verify(ctx context.Context, idToken string) (*GoogleClaims, error) {
	u := v.endpoint + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tokeninfo rejected token, status: %s", resp.Status)
	}

	var info tokenInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}

	if v.clientID != "" && info.Aud != v.clientID {
		return nil, fmt.Errorf("token audience mismatch")
	}
	if info.EmailVerified != "true" {
		return nil, fmt.Errorf("email not verified")
	}

	return &GoogleClaims{
		Subject:  info.Sub,
		Email:    info.Email,
		FullName: info.Name,
	}, nil
}
