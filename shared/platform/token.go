package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"vidscope/shared/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// newCaptionService builds a second YouTube service authenticated with the
// stored OAuth token. The token file is written by an out-of-band
// authorization step; if it is missing or the client is unconfigured the
// transcript feature simply stays off.
func newCaptionService(ctx context.Context, cfg *config.YouTubeConfig) (*youtube.Service, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("no OAuth client configured")
	}

	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       []string{"https://www.googleapis.com/auth/youtube.force-ssl"},
		Endpoint:     google.Endpoint,
	}

	token, err := tokenFromFile(cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("no stored OAuth token: %w", err)
	}

	// Refreshed tokens are persisted so they survive restarts.
	source := &savingTokenSource{
		config:    oauthConfig,
		token:     token,
		tokenFile: cfg.TokenFile,
	}

	svc, err := youtube.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, source)))
	if err != nil {
		return nil, fmt.Errorf("failed to create caption service: %w", err)
	}
	return svc, nil
}

// savingTokenSource wraps an oauth2.TokenSource so refreshed tokens are
// written back to disk.
type savingTokenSource struct {
	config    *oauth2.Config
	token     *oauth2.Token
	tokenFile string
	mu        sync.Mutex
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	newToken, err := s.config.TokenSource(context.Background(), s.token).Token()
	if err != nil {
		return nil, err
	}

	if newToken.AccessToken != s.token.AccessToken {
		s.token = newToken
		if err := saveToken(s.tokenFile, newToken); err != nil {
			// Not fatal: the refreshed token still works for this process.
			return newToken, nil
		}
	}
	return newToken, nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, err
	}
	if tok.RefreshToken == "" && !tok.Valid() {
		return nil, errors.New("stored token expired and has no refresh token")
	}
	return tok, nil
}

func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache oauth token: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("failed to encode oauth token: %w", err)
	}
	return nil
}
