package types

// TokenInfo is the validated identity extracted from a Cognito ID token.
type TokenInfo struct {
	UserID        string // Cognito subject (sub claim)
	Email         string
	Name          string
	Username      string // cognito:username claim
	EmailVerified bool
	Nonce         string
	Valid         bool
}

// TokenSet is the token endpoint response, shared by the authorization-code
// exchange and the refresh grant. Cognito omits refresh_token on refresh.
type TokenSet struct {
	AccessToken  string `json:"access_token"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}
