package harness

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSigner issues HS256 bearer tokens for simulated authenticated
// requests.
type TokenSigner struct {
	secret []byte
}

// NewTokenSigner returns a signer using secret as the HMAC key.
func NewTokenSigner(secret string) *TokenSigner {
	if secret == "" {
		panic("harness: token signer needs a non-empty secret")
	}
	return &TokenSigner{secret: []byte(secret)}
}

// Bearer signs a token for subject, valid for one hour, with any extra
// claims merged in. Extra claims may override the stamped ones.
func (s *TokenSigner) Bearer(subject string, claims map[string]interface{}) string {
	now := time.Now()
	mc := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
	for k, v := range claims {
		mc[k] = v
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mc)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		panic(fmt.Sprintf("harness: signing token: %v", err))
	}
	return signed
}

// Parse verifies a token issued by this signer and returns its claims.
func (s *TokenSigner) Parse(token string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type %T", parsed.Claims)
	}
	return claims, nil
}
