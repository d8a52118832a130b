package ledgerport

import (
	"strings"

	"golang.org/x/oauth2"
)

// OAuthEndpoint returns the OAuth2 authorization and token endpoints for the
// Ledgerport service rooted at baseURL. An empty baseURL selects production.
func OAuthEndpoint(baseURL string) oauth2.Endpoint {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	return oauth2.Endpoint{
		AuthURL:  baseURL + "/approve_app",
		TokenURL: baseURL + "/token_endpoint",
	}
}

// OAuthConfig builds an oauth2.Config for an app registered with Ledgerport.
// Pass the resulting config's TokenSource to ClientConfig.TokenSource to get
// automatic token refresh.
func OAuthConfig(clientID, clientSecret, redirectURL, baseURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     OAuthEndpoint(baseURL),
	}
}
