package token

import (
	"context"
	stderrors "errors"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"pitchperfect/internal/config"
	"pitchperfect/pkg/errors"
)

// OAuth2Source adapts an oauth2.TokenSource to the SessionSource interface.
// The underlying source owns token caching and refresh; a token that is
// present but empty is reported as the transient not-ready condition rather
// than a hard failure.
type OAuth2Source struct {
	ts oauth2.TokenSource
}

// NewOAuth2Source wraps an existing oauth2 token source
func NewOAuth2Source(ts oauth2.TokenSource) *OAuth2Source {
	return &OAuth2Source{ts: ts}
}

// NewAuth0Source builds a session source against the Auth0 token endpoint
// from application config
func NewAuth0Source(ctx context.Context, cfg *config.Config) (*OAuth2Source, error) {
	if cfg.Auth0Domain == "" || cfg.Auth0ClientID == "" {
		return nil, errors.NewAuthenticationError("identity provider is not configured")
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.Auth0ClientID,
		ClientSecret: cfg.Auth0ClientSecret,
		TokenURL:     cfg.TokenURL(),
	}
	if cfg.Auth0Audience != "" {
		cc.EndpointParams = url.Values{"audience": {cfg.Auth0Audience}}
	}

	return &OAuth2Source{ts: cc.TokenSource(ctx)}, nil
}

// Token returns the current access token from the identity SDK. A rejection
// from the token endpoint is a hard session failure; a transport failure on
// the way there is transient and left to the provider's retry policy.
func (s *OAuth2Source) Token(ctx context.Context) (string, error) {
	tok, err := s.ts.Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if stderrors.As(err, &retrieveErr) {
			return "", errors.NewAuthenticationError("no session available: " + err.Error())
		}
		return "", errors.NewNetworkError("token endpoint unreachable", err)
	}
	if tok.AccessToken == "" {
		return "", errors.NewTokenNotReadyError("session established but token issuance still pending")
	}
	return tok.AccessToken, nil
}
