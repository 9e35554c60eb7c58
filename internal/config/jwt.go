package config

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type JWT struct {
	publicKey     *rsa.PublicKey
	privateKey    *rsa.PrivateKey
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
}

// GameClaims prove that the bearer created the game it names.
type GameClaims struct {
	GameID string `json:"game_id"`
	jwt.RegisteredClaims
}

func loadPrivateKey() (*rsa.PrivateKey, error) {
	privateKeyStr, ok := os.LookupEnv("JWT_PRIVATE_KEY")
	if ok {
		return jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKeyStr))
	}
	privateKeyPath, ok := os.LookupEnv("JWT_PRIVATE_KEY_FILE")
	if !ok {
		return nil, fmt.Errorf("no JWT_PRIVATE_KEY or JWT_PRIVATE_KEY_FILE env variable set")
	}
	privateKeyBytes, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read JWT private key: %w", err)
	}
	return jwt.ParseRSAPrivateKeyFromPEM(privateKeyBytes)
}

func loadPublicKey() (*rsa.PublicKey, error) {
	publicKeyStr, ok := os.LookupEnv("JWT_PUBLIC_KEY")
	if ok {
		return jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyStr))
	}
	publicKeyPath, ok := os.LookupEnv("JWT_PUBLIC_KEY_FILE")
	if !ok {
		return nil, fmt.Errorf("no JWT_PUBLIC_KEY or JWT_PUBLIC_KEY_FILE env variable set")
	}
	publicKeyBytes, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read JWT public key: %w", err)
	}
	return jwt.ParseRSAPublicKeyFromPEM(publicKeyBytes)
}

// NewJWT loads the signing key pair. In development a missing private key
// is replaced by a throwaway one, so tokens do not survive a restart.
func NewJWT(development bool) (*JWT, error) {
	lifetime, err := durationEnv("JWT_TOKEN_LIFETIME", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	privateKey, err := loadPrivateKey()
	if err != nil && development {
		privateKey, err = rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			return nil, err
		}
		return NewJWTFromKey(privateKey, lifetime), nil
	}
	if err != nil {
		return nil, err
	}

	publicKey, err := loadPublicKey()
	if err != nil {
		return nil, err
	}

	j := &JWT{
		privateKey:    privateKey,
		publicKey:     publicKey,
		signingMethod: jwt.SigningMethodRS256,
		tokenLifetime: lifetime,
	}

	return j, nil
}

func NewJWTFromKey(key *rsa.PrivateKey, lifetime time.Duration) *JWT {
	return &JWT{
		privateKey:    key,
		publicKey:     &key.PublicKey,
		signingMethod: jwt.SigningMethodRS256,
		tokenLifetime: lifetime,
	}
}

func (j *JWT) NewGameClaims(gameID string, now time.Time) *GameClaims {
	return &GameClaims{
		GameID: gameID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenLifetime)),
		},
	}
}

func (j *JWT) Sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(j.signingMethod, claims).SignedString(j.privateKey)
}

func (j *JWT) ParseWithClaims(tokenString string, claims jwt.Claims) (*jwt.Token, error) {
	return jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return j.publicKey, nil
		},
		jwt.WithValidMethods([]string{j.signingMethod.Alg()}),
	)
}
