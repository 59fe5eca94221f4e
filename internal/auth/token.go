package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/Behyna/streamstore/internal/config"
	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrInvalidToken = errors.New("INVALID_TOKEN")
	ErrNotAdmin     = errors.New("NOT_ADMIN")
)

const defaultTokenTTL = 30 * time.Minute

type Token struct {
	Value     string    `json:"token"`
	Phone     string    `json:"phone"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenIssuer signs short-lived HS256 admin tokens. Tokens are stateless;
// the allow-list is re-checked every time one is parsed.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	admins *AdminList
	now    func() time.Time
}

func NewTokenIssuer(cfg *config.Config, admins *AdminList) *TokenIssuer {
	ttl := cfg.Admin.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(cfg.Admin.JWTSecret), ttl: ttl, admins: admins, now: time.Now}
}

func (t *TokenIssuer) Issue(phone string) (Token, error) {
	phone = NormalizePhone(phone)
	if !t.admins.Contains(phone) {
		return Token{}, ErrNotAdmin
	}

	expiresAt := t.now().Add(t.ttl)

	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["sub"] = phone
	claims["iat"] = t.now().Unix()
	claims["exp"] = expiresAt.Unix()

	value, err := token.SignedString(t.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}

	return Token{Value: value, Phone: phone, ExpiresAt: time.Unix(expiresAt.Unix(), 0)}, nil
}

// Parse validates signature and expiry and returns the session the token
// grants. A token whose subject was removed from the allow-list is rejected.
func (t *TokenIssuer) Parse(value string) (Token, error) {
	parsed, err := jwt.Parse(value, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return Token{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return Token{}, ErrInvalidToken
	}

	phone, _ := claims["sub"].(string)
	exp, _ := claims["exp"].(float64)
	if phone == "" || exp == 0 {
		return Token{}, ErrInvalidToken
	}
	if !t.admins.Contains(phone) {
		return Token{}, ErrNotAdmin
	}

	return Token{Value: value, Phone: phone, ExpiresAt: time.Unix(int64(exp), 0)}, nil
}
