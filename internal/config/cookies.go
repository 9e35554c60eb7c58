package config

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	authCookie = "auth"
	signCookie = "sign"
)

// Cookies carries the game ownership token. The token is split so that its
// signature lives in an HttpOnly cookie while the claims stay readable by
// scripts.
type Cookies struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
	jwt      *JWT
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToUpper(s) {
	case "DEFAULT":
		return http.SameSiteDefaultMode
	case "LAX":
		return http.SameSiteLaxMode
	case "NONE":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteStrictMode
	}
}

func NewCookies(j *JWT) (*Cookies, error) {
	if j == nil {
		return nil, fmt.Errorf("cookies need a JWT signer")
	}
	domain, _ := os.LookupEnv("COOKIES_DOMAIN")

	cookies := &Cookies{
		Domain:   domain,
		Secure:   boolEnv("COOKIES_SECURE"),
		SameSite: parseSameSite(stringEnv("COOKIES_SAMESITE", "STRICT")),
		jwt:      j,
	}

	return cookies, nil
}

func (c *Cookies) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Path:     "/",
		Value:    value,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	}
}

func (c *Cookies) Clear(w http.ResponseWriter) {
	auth := c.cookie(authCookie, "delete")
	auth.MaxAge = -1
	http.SetCookie(w, auth)

	sign := c.cookie(signCookie, "delete")
	sign.MaxAge = -1
	sign.HttpOnly = true
	http.SetCookie(w, sign)
}

// Grant hands the client a token proving it owns gameID. A client owns one
// game at a time: the cookies of a later grant replace those of the earlier
// one, and the earlier game can then only be watched.
func (c *Cookies) Grant(w http.ResponseWriter, gameID string) error {
	now := time.Now()
	token, err := c.jwt.Sign(c.jwt.NewGameClaims(gameID, now))
	if err != nil {
		return fmt.Errorf("unable to sign game claims: %w", err)
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return fmt.Errorf("malformed JWT token generated")
	}
	header, payload, signature := parts[0], parts[1], parts[2]
	expires := now.Add(c.jwt.tokenLifetime)

	auth := c.cookie(authCookie, header+"."+payload)
	auth.Expires = expires
	http.SetCookie(w, auth)

	sign := c.cookie(signCookie, signature)
	sign.Expires = expires
	sign.HttpOnly = true
	http.SetCookie(w, sign)

	return nil
}

func (c *Cookies) ParseGameClaims(r *http.Request) (*GameClaims, error) {
	auth, err := r.Cookie(authCookie)
	if err != nil {
		return nil, err
	}
	sign, err := r.Cookie(signCookie)
	if err != nil {
		return nil, err
	}
	token, err := c.jwt.ParseWithClaims(
		auth.Value+"."+sign.Value, &GameClaims{},
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*GameClaims)
	if !ok {
		return nil, fmt.Errorf("malformed claims")
	}
	return claims, nil
}
