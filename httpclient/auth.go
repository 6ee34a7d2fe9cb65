package httpclient

import "net/http"

// AuthConfig carries the credential sent with each request.
type AuthConfig struct {
	// Header defaults to Authorization.
	Header string
	// Scheme is prepended to Token with a space when set.
	Scheme string
	Token  string
}

// BearerAuth sends "Authorization: Bearer <token>".
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Scheme: "Bearer", Token: token}
}

// apply is a no-op for a nil config or an empty token, so a missing key
// reaches the upstream unauthenticated and surfaces as its own 401.
func (a *AuthConfig) apply(req *http.Request) {
	if a == nil || a.Token == "" {
		return
	}
	header := a.Header
	if header == "" {
		header = "Authorization"
	}
	value := a.Token
	if a.Scheme != "" {
		value = a.Scheme + " " + a.Token
	}
	req.Header.Set(header, value)
}
