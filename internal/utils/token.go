package utils

import (
	"fmt"
	"strings"
)

// MockTokenPrefix is prepended to the user id to form a login token.
const MockTokenPrefix = "mock-jwt-token-"

// TokenUtil issues the deterministic mock tokens handed out on login.
// Tokens carry no signature and never expire.
type TokenUtil struct {
	prefix string
}

// NewTokenUtil creates a TokenUtil using MockTokenPrefix
func NewTokenUtil() *TokenUtil {
	return &TokenUtil{prefix: MockTokenPrefix}
}

// GenerateToken builds the token for a user id
func (tu *TokenUtil) GenerateToken(userID string) string {
	return tu.prefix + userID
}

// UserIDFromToken extracts the user id from a token issued by GenerateToken
func (tu *TokenUtil) UserIDFromToken(token string) (string, error) {
	userID, ok := strings.CutPrefix(token, tu.prefix)
	if !ok || userID == "" {
		return "", fmt.Errorf("invalid token")
	}
	return userID, nil
}
