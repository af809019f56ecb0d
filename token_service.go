package blog

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// TokenService signs and verifies bearer tokens carrying a user identity
// claim. Tokens are stateless: nothing here touches the user directory.
type TokenService struct {
	signingKey []byte
	ttl        time.Duration
	issuer     string
	logger     Logger
}

var (
	_ TokenIssuer    = (*TokenService)(nil)
	_ TokenValidator = (*TokenService)(nil)
)

// NewTokenService creates a new TokenService instance
func NewTokenService(signingKey []byte, ttl time.Duration, issuer string, logger Logger) *TokenService {
	if logger == nil {
		logger = defLogger{}
	}
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		signingKey: signingKey,
		ttl:        ttl,
		issuer:     issuer,
		logger:     logger,
	}
}

// Generate mints a token for the given user id using the configured TTL.
func (ts *TokenService) Generate(userID string) (string, error) {
	return ts.GenerateWithTTL(userID, ts.ttl)
}

// GenerateWithTTL mints a token with an explicit TTL. Negative TTLs produce
// already-expired tokens, which tests use to exercise expiry handling.
func (ts *TokenService) GenerateWithTTL(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UID: userID,
	}

	return ts.SignClaims(claims)
}

// SignClaims signs arbitrary JWT claims using the configured signing key.
func (ts *TokenService) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", goerrors.New("claims must not be nil", goerrors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses and validates a token string, returning structured claims
func (ts *TokenService) Validate(tokenString string) (AuthClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 1)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method: %v", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if goerrors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, goerrors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).WithTextCode(ErrTokenMalformed.TextCode)
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	ts.logger.Error("TokenService validate could not decode or validate claims")
	return nil, ErrUnableToDecodeSession
}
