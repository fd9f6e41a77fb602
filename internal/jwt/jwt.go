package jwt

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	jwtgo "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Issuer issues the JWT
const Issuer = "dealmein-server"

// Audience is the intended JWT audience
const Audience = "dealmein-clients"

// Signer signs and validates player tokens
type Signer struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	ttl        time.Duration
	now        func() time.Time
}

// NewSigner returns a signer for the key pair. A zero ttl issues tokens that never expire.
func NewSigner(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, ttl time.Duration) *Signer {
	return &Signer{
		privateKey: privateKey,
		publicKey:  publicKey,
		ttl:        ttl,
		now:        time.Now,
	}
}

// LoadSigner reads PEM encoded keys from disk
func LoadSigner(privateKeyPath, publicKeyPath string, ttl time.Duration) (*Signer, error) {
	privateKey, err := loadPrivateKey(privateKeyPath)
	if err != nil {
		return nil, err
	}

	publicKey, err := loadPublicKey(publicKeyPath)
	if err != nil {
		return nil, err
	}

	return NewSigner(privateKey, publicKey, ttl), nil
}

// Sign will sign a JWT for the player ID
func (s *Signer) Sign(playerID int64) (string, error) {
	now := s.now()
	claims := jwtgo.RegisteredClaims{
		Audience: jwtgo.ClaimStrings{Audience},
		ID:       uuid.New().String(),
		IssuedAt: jwtgo.NewNumericDate(now),
		Issuer:   Issuer,
		Subject:  strconv.FormatInt(playerID, 10),
	}

	if s.ttl > 0 {
		claims.ExpiresAt = jwtgo.NewNumericDate(now.Add(s.ttl))
	}

	return jwtgo.NewWithClaims(jwtgo.SigningMethodRS256, claims).SignedString(s.privateKey)
}

// ValidPlayerID will validate a signed JWT and return the player it was issued to
func (s *Signer) ValidPlayerID(signedString string) (int64, error) {
	token, err := jwtgo.ParseWithClaims(signedString, &jwtgo.RegisteredClaims{}, func(token *jwtgo.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwtgo.SigningMethodRSA); !ok {
			return nil, errors.New("expected RS256 signing method")
		}

		return s.publicKey, nil
	})

	if err != nil {
		return 0, err
	}

	if !token.Valid {
		logrus.Warn("token claims were not valid. did not expect to reach this code")
		return 0, errors.New("claims were not valid")
	}

	claims, ok := token.Claims.(*jwtgo.RegisteredClaims)
	if !ok {
		return 0, fmt.Errorf("expected jwt.RegisteredClaims, got %T", token.Claims)
	}

	if !containsAudience(claims.Audience, Audience) {
		return 0, errors.New("invalid audience")
	}

	if claims.Issuer != Issuer {
		return 0, errors.New("invalid issuer")
	}

	return strconv.ParseInt(claims.Subject, 10, 64)
}

func loadPublicKey(path string) (*rsa.PublicKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read public key: %w", err)
	}

	return jwtgo.ParseRSAPublicKeyFromPEM(b)
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read private key: %w", err)
	}

	return jwtgo.ParseRSAPrivateKeyFromPEM(b)
}

func containsAudience(audiences jwtgo.ClaimStrings, target string) bool {
	for _, aud := range audiences {
		if aud == target {
			return true
		}
	}

	return false
}
