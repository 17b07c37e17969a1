package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// Token validation failures. All three collapse into one generic 401 at
// the HTTP boundary but stay distinguishable for logging and tests.
var (
	// ErrTokenMalformed covers tokens that cannot be parsed as well as
	// tokens whose signature does not verify.
	ErrTokenMalformed = errors.New("token malformed or signature invalid")
	// ErrTokenExpired is returned once the embedded expiry has elapsed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenMissingClaims is returned when a structurally valid token
	// lacks the subject or user_id claims.
	ErrTokenMissingClaims = errors.New("token missing required claims")
)

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the serialized JWT string. Exp stores the
// absolute UTC expiration time. Access tokens are carried in the
// Authorization header when calling protected endpoints.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// TokenIdentity is the identity asserted by a validated access token.
type TokenIdentity struct {
	UserID   uint64
	Username string
}

// NewAccessToken builds and signs an HS256 JWT for a user. The claims
// follow the board's session format: sub carries the username, user_id
// the numeric identifier, plus exp and iat. There is no revocation
// list; a token stays valid until exp regardless of server state.
func NewAccessToken(secret string, userID uint64, username string, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":     username,
		"user_id": userID,
		"exp":     exp.Unix(),
		"iat":     time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies a token's signature against the secret,
// then its expiry, then the presence of the identity claims. The
// signing method is pinned to HMAC so a token cannot downgrade the
// verification algorithm.
func ParseAccessToken(secret, raw string) (TokenIdentity, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenMalformed
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenIdentity{}, ErrTokenExpired
		}
		return TokenIdentity{}, ErrTokenMalformed
	}
	if !tok.Valid {
		return TokenIdentity{}, ErrTokenMalformed
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return TokenIdentity{}, ErrTokenMissingClaims
	}
	username, ok := claims["sub"].(string)
	if !ok || username == "" {
		return TokenIdentity{}, ErrTokenMissingClaims
	}
	var userID uint64
	switch v := claims["user_id"].(type) {
	case float64:
		// JSON numbers decode as float64.
		userID = uint64(v)
	case string:
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return TokenIdentity{}, ErrTokenMissingClaims
		}
		userID = n
	default:
		return TokenIdentity{}, ErrTokenMissingClaims
	}
	if userID == 0 {
		return TokenIdentity{}, ErrTokenMissingClaims
	}
	return TokenIdentity{UserID: userID, Username: username}, nil
}
