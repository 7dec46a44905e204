package services

import (
	"context"
	"crypto/rsa"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"playlater/config"
	"playlater/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/golang-jwt/jwt/v5"
)

// OIDCDiscovery represents the OIDC discovery document
type OIDCDiscovery struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	JWKS_URI              string `json:"jwks_uri"`
	RevocationEndpoint    string `json:"revocation_endpoint"`
	EndSessionEndpoint    string `json:"end_session_endpoint"`
}

// JWK represents a JSON Web Key
type JWK struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// JWKSet represents a set of JSON Web Keys
type JWKSet struct {
	Keys []JWK `json:"keys"`
}

// CognitoService handles the OAuth2/OIDC flow against an AWS Cognito user
// pool: authorization URL generation, code exchange, ID token validation,
// token refresh and revocation.
type CognitoService struct {
	config       config.Config
	log          logger.Logger
	httpClient   *http.Client
	issuer       string
	clientID     string
	clientSecret string
	hostedDomain string
	redirectURI  string

	// OIDC discovery and JWK caching
	discovery     *OIDCDiscovery
	jwks          *JWKSet
	discoveryMux  sync.RWMutex
	jwksMux       sync.RWMutex
	discoveryTime time.Time
	jwksTime      time.Time
	cacheTTL      time.Duration
}

func NewCognitoService(cfg config.Config) (*CognitoService, error) {
	log := logger.New("CognitoService")

	if cfg.CognitoRegion == "" || cfg.CognitoUserPoolID == "" || cfg.CognitoClientID == "" {
		return nil, log.ErrMsg(
			"Cognito configuration required but not provided: missing CognitoRegion, CognitoUserPoolID or CognitoClientID",
		)
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: false},
		},
	}

	service := &CognitoService{
		config:     cfg,
		log:        log,
		httpClient: httpClient,
		issuer: fmt.Sprintf(
			"https://cognito-idp.%s.amazonaws.com/%s",
			cfg.CognitoRegion,
			cfg.CognitoUserPoolID,
		),
		clientID:     cfg.CognitoClientID,
		clientSecret: cfg.CognitoClientSecret,
		hostedDomain: strings.TrimSuffix(cfg.CognitoDomain, "/"),
		redirectURI:  cfg.OAuthRedirectURL,
		cacheTTL:     15 * time.Minute,
	}

	log.Info("Cognito service initialized successfully",
		"issuer", service.issuer,
		"hasClientSecret", cfg.CognitoClientSecret != "")
	return service, nil
}

// GetAuthorizationURL builds the hosted UI authorization URL. State and
// nonce are caller-generated; state is verified at the callback and nonce
// inside the ID token.
func (cs *CognitoService) GetAuthorizationURL(
	ctx context.Context,
	state, nonce string,
) (string, error) {
	log := logger.New("CognitoService").TraceFromContext(ctx).Function("GetAuthorizationURL")

	endpoint, err := cs.authorizationEndpoint(ctx)
	if err != nil {
		return "", log.Err("failed to resolve authorization endpoint", err)
	}

	authURL, err := url.Parse(endpoint)
	if err != nil {
		return "", log.Err("failed to parse authorization endpoint", err)
	}

	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", cs.clientID)
	params.Set("redirect_uri", cs.redirectURI)
	params.Set("scope", "openid email profile")
	params.Set("state", state)
	params.Set("nonce", nonce)
	authURL.RawQuery = params.Encode()

	return authURL.String(), nil
}

// ExchangeCode trades an authorization code for a token set.
func (cs *CognitoService) ExchangeCode(
	ctx context.Context,
	code string,
) (*types.TokenSet, error) {
	log := logger.New("CognitoService").TraceFromContext(ctx).Function("ExchangeCode")

	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("client_id", cs.clientID)
	data.Set("code", code)
	data.Set("redirect_uri", cs.redirectURI)

	tokens, err := cs.tokenRequest(ctx, data)
	if err != nil {
		return nil, log.Err("authorization code exchange failed", err)
	}

	if tokens.IDToken == "" {
		return nil, log.ErrMsg("token response missing id_token")
	}

	log.Info("authorization code exchanged successfully")
	return tokens, nil
}

// RefreshTokens trades a refresh token for a fresh token set. Cognito does
// not rotate the refresh token on this grant.
func (cs *CognitoService) RefreshTokens(
	ctx context.Context,
	refreshToken string,
) (*types.TokenSet, error) {
	log := logger.New("CognitoService").TraceFromContext(ctx).Function("RefreshTokens")

	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("client_id", cs.clientID)
	data.Set("refresh_token", refreshToken)

	tokens, err := cs.tokenRequest(ctx, data)
	if err != nil {
		return nil, log.Err("token refresh failed", err)
	}

	log.Info("tokens refreshed successfully")
	return tokens, nil
}

func (cs *CognitoService) tokenRequest(
	ctx context.Context,
	data url.Values,
) (*types.TokenSet, error) {
	log := logger.New("CognitoService").TraceFromContext(ctx).Function("tokenRequest")

	discovery, err := cs.getOIDCDiscovery(ctx)
	if err != nil {
		return nil, log.Err("failed to get OIDC discovery for token request", err)
	}

	tokenEndpoint := discovery.TokenEndpoint
	if tokenEndpoint == "" && cs.hostedDomain != "" {
		tokenEndpoint = cs.hostedDomain + "/oauth2/token"
	}
	if tokenEndpoint == "" {
		return nil, log.ErrMsg("token endpoint not available")
	}

	req, err := http.NewRequestWithContext(
		ctx,
		"POST",
		tokenEndpoint,
		strings.NewReader(data.Encode()),
	)
	if err != nil {
		return nil, log.Err("failed to create token request", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if cs.clientSecret != "" {
		req.SetBasicAuth(cs.clientID, cs.clientSecret)
	}

	resp, err := cs.httpClient.Do(req)
	if err != nil {
		return nil, log.Err("failed to make token request", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Info("failed to close token response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, log.Error("token request failed",
			"statusCode", resp.StatusCode,
			"responseBody", string(body))
	}

	var tokens types.TokenSet
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return nil, log.Err("failed to decode token response", err)
	}

	return &tokens, nil
}

// ValidateIDToken verifies an ID token's signature against the pool JWKS
// and checks issuer, audience, token_use and nonce.
func (cs *CognitoService) ValidateIDToken(
	ctx context.Context,
	idToken string,
	expectedNonce string,
) (*types.TokenInfo, error) {
	log := logger.New("CognitoService").TraceFromContext(ctx).Function("ValidateIDToken")

	var claims struct {
		jwt.RegisteredClaims
		Email           string `json:"email"`
		Name            string `json:"name"`
		GivenName       string `json:"given_name"`
		FamilyName      string `json:"family_name"`
		CognitoUsername string `json:"cognito:username"`
		EmailVerified   bool   `json:"email_verified"`
		TokenUse        string `json:"token_use"`
		Nonce           string `json:"nonce"`
	}

	token, err := jwt.ParseWithClaims(
		idToken,
		&claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, log.ErrMsg(
					"unexpected signing method: " + fmt.Sprintf("%v", token.Header["alg"]),
				)
			}

			kidHeader, ok := token.Header["kid"].(string)
			if !ok {
				return nil, log.ErrMsg("missing or invalid 'kid' in JWT header")
			}

			publicKey, err := cs.getPublicKeyForToken(ctx, kidHeader)
			if err != nil {
				return nil, log.Err("failed to get public key", err)
			}

			return publicKey, nil
		},
	)
	if err != nil {
		return &types.TokenInfo{Valid: false}, log.Err("JWT signature verification failed", err)
	}

	if !token.Valid {
		return &types.TokenInfo{Valid: false}, log.ErrMsg("JWT token is invalid")
	}

	if claims.Issuer != cs.issuer {
		return &types.TokenInfo{Valid: false}, log.ErrMsg(
			"invalid issuer: expected " + cs.issuer + ", got " + claims.Issuer,
		)
	}

	if !slices.Contains(claims.Audience, cs.clientID) {
		return &types.TokenInfo{Valid: false}, log.ErrMsg(
			"invalid audience: expected client ID " + cs.clientID + " not found in audience " +
				fmt.Sprintf("%v", claims.Audience),
		)
	}

	if claims.TokenUse != "id" {
		return &types.TokenInfo{Valid: false}, log.ErrMsg(
			"invalid token_use: expected id, got " + claims.TokenUse,
		)
	}

	if expectedNonce != "" && claims.Nonce != expectedNonce {
		return &types.TokenInfo{Valid: false}, log.ErrMsg("nonce mismatch")
	}

	displayName := claims.Name
	if displayName == "" && (claims.GivenName != "" || claims.FamilyName != "") {
		displayName = strings.TrimSpace(claims.GivenName + " " + claims.FamilyName)
	}
	if displayName == "" {
		displayName = claims.CognitoUsername
	}

	log.Info("ID token validation successful",
		"sub", claims.Subject,
		"email", claims.Email,
		"exp", claims.ExpiresAt.Time)

	return &types.TokenInfo{
		UserID:        claims.Subject,
		Email:         claims.Email,
		Name:          displayName,
		Username:      claims.CognitoUsername,
		EmailVerified: claims.EmailVerified,
		Nonce:         claims.Nonce,
		Valid:         true,
	}, nil
}

// RevokeToken revokes a refresh token. Best effort on logout; RFC 7009
// requires 200 even for unknown tokens.
func (cs *CognitoService) RevokeToken(ctx context.Context, refreshToken string) error {
	log := logger.New("CognitoService").TraceFromContext(ctx).Function("RevokeToken")

	discovery, err := cs.getOIDCDiscovery(ctx)
	if err != nil {
		return log.Err("failed to get OIDC discovery for token revocation", err)
	}

	revocationEndpoint := discovery.RevocationEndpoint
	if revocationEndpoint == "" && cs.hostedDomain != "" {
		revocationEndpoint = cs.hostedDomain + "/oauth2/revoke"
	}
	if revocationEndpoint == "" {
		return log.ErrMsg("revocation endpoint not available")
	}

	data := url.Values{}
	data.Set("token", refreshToken)
	data.Set("client_id", cs.clientID)

	req, err := http.NewRequestWithContext(
		ctx,
		"POST",
		revocationEndpoint,
		strings.NewReader(data.Encode()),
	)
	if err != nil {
		return log.Err("failed to create token revocation request", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if cs.clientSecret != "" {
		req.SetBasicAuth(cs.clientID, cs.clientSecret)
	}

	resp, err := cs.httpClient.Do(req)
	if err != nil {
		return log.Err("failed to make token revocation request", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Info("failed to close revocation response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return log.Error("token revocation request failed",
			"statusCode", resp.StatusCode,
			"responseBody", string(body))
	}

	log.Info("token revocation successful", "endpoint", revocationEndpoint)
	return nil
}

// GetLogoutURL builds the hosted UI logout URL, which clears the Cognito
// SSO cookie and then redirects back to the app.
func (cs *CognitoService) GetLogoutURL(postLogoutRedirectURI string) (string, error) {
	log := cs.log.Function("GetLogoutURL")

	if cs.hostedDomain == "" {
		return "", log.ErrMsg("hosted domain not configured")
	}

	logoutURL, err := url.Parse(cs.hostedDomain + "/logout")
	if err != nil {
		return "", log.Err("failed to parse logout endpoint", err)
	}

	params := url.Values{}
	params.Set("client_id", cs.clientID)
	if postLogoutRedirectURI != "" {
		params.Set("logout_uri", postLogoutRedirectURI)
	}
	logoutURL.RawQuery = params.Encode()

	return logoutURL.String(), nil
}

func (cs *CognitoService) authorizationEndpoint(ctx context.Context) (string, error) {
	discovery, err := cs.getOIDCDiscovery(ctx)
	if err == nil && discovery.AuthorizationEndpoint != "" {
		return discovery.AuthorizationEndpoint, nil
	}

	if cs.hostedDomain != "" {
		return cs.hostedDomain + "/oauth2/authorize", nil
	}

	if err != nil {
		return "", err
	}
	return "", fmt.Errorf("authorization endpoint not available")
}

// getOIDCDiscovery fetches and caches the OIDC discovery document
func (cs *CognitoService) getOIDCDiscovery(ctx context.Context) (*OIDCDiscovery, error) {
	log := logger.New("CognitoService").TraceFromContext(ctx).Function("getOIDCDiscovery")

	cs.discoveryMux.RLock()
	if cs.discovery != nil && time.Since(cs.discoveryTime) < cs.cacheTTL {
		discovery := cs.discovery
		cs.discoveryMux.RUnlock()
		return discovery, nil
	}
	cs.discoveryMux.RUnlock()

	discoveryURL := cs.issuer + "/.well-known/openid-configuration"

	req, err := http.NewRequestWithContext(ctx, "GET", discoveryURL, nil)
	if err != nil {
		return nil, log.Err("failed to create discovery request", err)
	}

	resp, err := cs.httpClient.Do(req)
	if err != nil {
		return nil, log.Err("failed to fetch OIDC discovery", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Info("failed to close discovery response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, log.Error("OIDC discovery request failed",
			"statusCode", resp.StatusCode)
	}

	var discovery OIDCDiscovery
	if err := json.NewDecoder(resp.Body).Decode(&discovery); err != nil {
		return nil, log.Err("failed to decode OIDC discovery", err)
	}

	if discovery.Issuer != cs.issuer {
		return nil, log.ErrMsg(
			"invalid issuer in discovery document: expected " + cs.issuer + ", got " + discovery.Issuer,
		)
	}

	if discovery.JWKS_URI == "" {
		return nil, log.ErrMsg("missing JWKS URI in discovery document")
	}

	cs.discoveryMux.Lock()
	cs.discovery = &discovery
	cs.discoveryTime = time.Now()
	cs.discoveryMux.Unlock()

	log.Info("OIDC discovery fetched successfully", "jwks_uri", discovery.JWKS_URI)
	return &discovery, nil
}

// getJWKS fetches and caches the JSON Web Key Set
func (cs *CognitoService) getJWKS(ctx context.Context) (*JWKSet, error) {
	log := logger.New("CognitoService").TraceFromContext(ctx).Function("getJWKS")

	cs.jwksMux.RLock()
	if cs.jwks != nil && time.Since(cs.jwksTime) < cs.cacheTTL {
		jwks := cs.jwks
		cs.jwksMux.RUnlock()
		return jwks, nil
	}
	cs.jwksMux.RUnlock()

	discovery, err := cs.getOIDCDiscovery(ctx)
	if err != nil {
		return nil, log.Err("failed to get OIDC discovery for JWKS", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", discovery.JWKS_URI, nil)
	if err != nil {
		return nil, log.Err("failed to create JWKS request", err)
	}

	resp, err := cs.httpClient.Do(req)
	if err != nil {
		return nil, log.Err("failed to fetch JWKS", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Info("failed to close JWKS response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, log.Error("JWKS request failed",
			"statusCode", resp.StatusCode)
	}

	var jwks JWKSet
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return nil, log.Err("failed to decode JWKS", err)
	}

	if len(jwks.Keys) == 0 {
		return nil, log.ErrMsg("JWKS contains no keys")
	}

	cs.jwksMux.Lock()
	cs.jwks = &jwks
	cs.jwksTime = time.Now()
	cs.jwksMux.Unlock()

	log.Info("JWKS fetched successfully", "keys_count", len(jwks.Keys))
	return &jwks, nil
}

// getPublicKeyForToken retrieves the public key for JWT verification based on kid header
func (cs *CognitoService) getPublicKeyForToken(
	ctx context.Context,
	kidHeader string,
) (*rsa.PublicKey, error) {
	log := logger.New("CognitoService").TraceFromContext(ctx).Function("getPublicKeyForToken")

	jwks, err := cs.getJWKS(ctx)
	if err != nil {
		return nil, log.Err("failed to get JWKS", err)
	}

	var targetJWK *JWK
	for _, jwk := range jwks.Keys {
		if jwk.Kid == kidHeader {
			targetJWK = &jwk
			break
		}
	}

	if targetJWK == nil {
		return nil, log.ErrMsg("no matching key found: kid " + kidHeader + " not found in JWKS")
	}

	if targetJWK.Kty != "RSA" {
		return nil, log.ErrMsg("unsupported key type: expected RSA, got " + targetJWK.Kty)
	}

	nBytes, err := base64.RawURLEncoding.DecodeString(targetJWK.N)
	if err != nil {
		return nil, log.Err("failed to decode RSA modulus (n)", err)
	}

	eBytes, err := base64.RawURLEncoding.DecodeString(targetJWK.E)
	if err != nil {
		return nil, log.Err("failed to decode RSA exponent (e)", err)
	}

	n := new(big.Int).SetBytes(nBytes)
	e := new(big.Int).SetBytes(eBytes)

	// Guard against exponents that overflow int on 32-bit systems.
	if !e.IsInt64() || e.Int64() > int64(^uint(0)>>1) {
		return nil, log.ErrMsg("RSA exponent too large: " + e.String())
	}

	publicKey := &rsa.PublicKey{
		N: n,
		E: int(e.Int64()),
	}

	log.Debug("public key retrieved successfully", "kid", kidHeader, "keyType", targetJWK.Kty)
	return publicKey, nil
}

// Close cleans up the Cognito service resources
func (cs *CognitoService) Close() error {
	return nil
}
