package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	githubTokenURL = "https://github.com/login/oauth/access_token"
	githubAPIURL   = "https://api.github.com"
)

// GitHubClient exchanges an authorization code for the GitHub identity behind
// it.
type GitHubClient struct {
	ClientID     string
	ClientSecret string

	// overridable for tests
	TokenURL   string
	APIURL     string
	HTTPClient *http.Client
}

func NewGitHubClient(clientID, clientSecret string) *GitHubClient {
	return &GitHubClient{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     githubTokenURL,
		APIURL:       githubAPIURL,
		HTTPClient:   http.DefaultClient,
	}
}

// Exchange trades the code for an access token and fetches the user behind
// it. GitHub can hide the profile email, so /user/emails is consulted as a
// fallback; an account with no visible email yields a nil Email.
func (g *GitHubClient) Exchange(ctx context.Context, code string) (*Profile, error) {
	token, err := g.accessToken(ctx, code)
	if err != nil {
		return nil, err
	}

	var user struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	}
	if err := g.getJSON(ctx, token, "/user", &user); err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, fmt.Errorf("github user lookup returned no id")
	}

	p := &Profile{ProviderID: strconv.FormatInt(user.ID, 10)}
	if user.Email != "" {
		p.Email = &user.Email
		return p, nil
	}

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := g.getJSON(ctx, token, "/user/emails", &emails); err == nil {
		for _, e := range emails {
			if e.Primary && e.Email != "" {
				p.Email = &e.Email
				break
			}
		}
	}
	return p, nil
}

func (g *GitHubClient) accessToken(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", g.ClientID)
	form.Set("client_secret", g.ClientSecret)
	form.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("github code exchange failed: %s", string(body))
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		Error       string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("github code exchange failed: %s", tok.Error)
	}
	return tok.AccessToken, nil
}

func (g *GitHubClient) getJSON(ctx context.Context, token, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.APIURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("github api %s: %s", path, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
