// Package oauth verifies third-party identities. It only establishes who the
// caller is; token storage and refresh are the providers' problem.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Profile is the provider-agnostic result of a successful verification.
type Profile struct {
	ProviderID string
	Email      *string
}

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// GoogleVerifier validates Google ID tokens via the tokeninfo endpoint.
type GoogleVerifier struct {
	ClientID string

	// overridable for tests
	Endpoint   string
	HTTPClient *http.Client
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{
		ClientID:   clientID,
		Endpoint:   googleTokenInfoURL,
		HTTPClient: http.DefaultClient,
	}
}

type googleTokenInfo struct {
	Sub           string `json:"sub"`
	Aud           string `json:"aud"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
}

// Verify checks an ID token and returns the Google identity it asserts.
func (g *GoogleVerifier) Verify(ctx context.Context, idToken string) (*Profile, error) {
	u := g.Endpoint + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("google token rejected: %s", string(body))
	}

	var info googleTokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	if info.Aud != g.ClientID {
		return nil, fmt.Errorf("google token audience mismatch")
	}
	if info.Sub == "" {
		return nil, fmt.Errorf("google token missing subject")
	}

	p := &Profile{ProviderID: info.Sub}
	if info.Email != "" {
		p.Email = &info.Email
	}
	return p, nil
}
