package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const secret = "test-secret"

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPassword(hash, "correct horse battery staple") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := MakeAccessToken("8b9c4e2a-0000-0000-0000-000000000001", "specialist", secret)
	if err != nil {
		t.Fatalf("MakeAccessToken: %v", err)
	}

	claims, err := ParseAccessToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != "8b9c4e2a-0000-0000-0000-000000000001" {
		t.Errorf("UserID = %q", claims.UserID)
	}
	if claims.Role != "specialist" {
		t.Errorf("Role = %q", claims.Role)
	}
}

func TestParseAccessTokenWrongSecret(t *testing.T) {
	tok, _ := MakeAccessToken("u", "patient", secret)
	if _, err := ParseAccessToken(tok, "other-secret"); err == nil {
		t.Fatal("token signed with another secret accepted")
	}
}

func TestParseAccessTokenExpired(t *testing.T) {
	c := Claims{
		UserID: "u",
		Role:   "patient",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	if _, err := ParseAccessToken(tok, secret); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestParseAccessTokenRejectsNonHMAC(t *testing.T) {
	// alg=none style tokens must not pass
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u", Role: "admin"})
	raw, _ := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := ParseAccessToken(raw, secret); err == nil {
		t.Fatal("unsigned token accepted")
	}
}

func TestRefreshTokenHash(t *testing.T) {
	raw, hash, err := GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if raw == "" || hash == "" {
		t.Fatal("empty token or hash")
	}
	if raw == hash {
		t.Fatal("hash equals raw token")
	}
	if HashRefreshToken(raw) != hash {
		t.Error("hash not reproducible")
	}

	raw2, _, _ := GenerateRefreshToken()
	if raw == raw2 {
		t.Error("two generated tokens are identical")
	}
}
