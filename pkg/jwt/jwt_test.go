package jwt_test

import (
	"testing"
	"time"

	"github.com/Ikeepmyideas/HealthTime/config"
	"github.com/Ikeepmyideas/HealthTime/pkg/jwt"

	"github.com/google/uuid"
)

func newService() *jwt.JWTService {
	return jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newService()
	userID := uuid.New()

	token, tokenID, err := svc.GenerateAccessToken(userID, "doc@example.com", "Dr. Example", 2)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if tokenID == "" {
		t.Fatal("empty token id")
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("user id: got %s, want %s", claims.UserID, userID)
	}
	if claims.Email != "doc@example.com" || claims.FullName != "Dr. Example" || claims.RoleID != 2 {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if claims.TokenType != jwt.AccessToken {
		t.Fatalf("token type: got %s", claims.TokenType)
	}
	if claims.TokenID != tokenID {
		t.Fatalf("token id: got %s, want %s", claims.TokenID, tokenID)
	}
}

func TestRefreshTokenType(t *testing.T) {
	svc := newService()

	token, _, err := svc.GenerateRefreshToken(uuid.New(), "p@example.com", "Pat", 3)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.TokenType != jwt.RefreshToken {
		t.Fatalf("token type: got %s", claims.TokenType)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	svc := newService()
	other := jwt.NewJWTService(config.JWTConfig{Secret: "different-secret", AccessExpiry: time.Minute})

	token, _, err := svc.GenerateAccessToken(uuid.New(), "a@example.com", "A", 1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("expected validation to fail with wrong secret")
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: -time.Minute})

	token, _, err := svc.GenerateAccessToken(uuid.New(), "a@example.com", "A", 1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := svc.ValidateToken(token); err == nil {
		t.Fatal("expected validation to fail for expired token")
	}
}
