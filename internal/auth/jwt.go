package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DefaultAccessTokenExpiry is the default lifetime of a session token
const DefaultAccessTokenExpiry = 24 * time.Hour

// JWTManager handles JWT token generation and validation
type JWTManager struct {
	secretKey         []byte
	accessTokenExpiry time.Duration
	now               func() time.Time
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secretKey string, accessExpiry time.Duration) *JWTManager {
	if accessExpiry <= 0 {
		accessExpiry = DefaultAccessTokenExpiry
	}

	return &JWTManager{
		secretKey:         []byte(secretKey),
		accessTokenExpiry: accessExpiry,
		now:               time.Now,
	}
}

// Expiry returns the access token lifetime
func (jm *JWTManager) Expiry() time.Duration {
	return jm.accessTokenExpiry
}

// GenerateAccessToken creates a new JWT access token
func (jm *JWTManager) GenerateAccessToken(user *User) (string, time.Time, error) {
	now := jm.now()
	expiresAt := now.Add(jm.accessTokenExpiry)

	claims := Claims{
		UserID:    user.ID,
		Username:  user.Username,
		IssuedAt:  now.Unix(),
		ExpiresAt: expiresAt.Unix(),
	}

	token, err := jm.generateToken(claims)
	if err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}

// ValidateAccessToken validates a JWT access token and returns the claims
func (jm *JWTManager) ValidateAccessToken(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, ErrInvalidToken
	}

	headerJSON, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, ErrInvalidToken
	}

	var header map[string]interface{}
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, ErrInvalidToken
	}

	if alg, ok := header["alg"].(string); !ok || alg != "HS256" {
		return nil, ErrInvalidToken
	}

	expected := jm.sign(parts[0] + "." + parts[1])
	if !hmac.Equal([]byte(parts[2]), []byte(expected)) {
		return nil, ErrInvalidToken
	}

	payloadJSON, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, ErrInvalidToken
	}

	var claims Claims
	if err := json.Unmarshal(payloadJSON, &claims); err != nil {
		return nil, ErrInvalidToken
	}

	if jm.now().Unix() > claims.ExpiresAt {
		return nil, ErrInvalidToken
	}

	return &claims, nil
}

// generateToken creates a JWT token with the given claims
func (jm *JWTManager) generateToken(claims Claims) (string, error) {
	header := map[string]string{
		"alg": "HS256",
		"typ": "JWT",
	}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", fmt.Errorf("failed to marshal header: %w", err)
	}
	headerEncoded := base64.RawURLEncoding.EncodeToString(headerJSON)

	payloadJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to marshal claims: %w", err)
	}
	payloadEncoded := base64.RawURLEncoding.EncodeToString(payloadJSON)

	signed := headerEncoded + "." + payloadEncoded
	return signed + "." + jm.sign(signed), nil
}

// sign creates an HMAC signature for the given data
func (jm *JWTManager) sign(data string) string {
	h := hmac.New(sha256.New, jm.secretKey)
	h.Write([]byte(data))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
