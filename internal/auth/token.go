package auth

import (
	"KVideo/internal/config"
	"KVideo/internal/model"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName — имя auth‑cookie, в которой клиент хранит сессионный токен.
const CookieName = "kvideo_token"

// ErrInvalidToken возвращается на ЛЮБУЮ проблему верификации: подпись,
// срок, формат. Причина не различается, чтобы не давать оракул атакующему.
var ErrInvalidToken = errors.New("invalid token")

// Claims — полезная нагрузка сессионного токена.
// Роль и флаги из токена годятся только для маршрутизации; любое решение
// об авторизации обязано перечитывать пользователя через Resolver.
type Claims struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// TokenService выпускает и проверяет подписанные сессионные токены.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
}

// NewTokenService создаёт сервис с данным секретом и стандартным сроком жизни.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), lifetime: config.TokenLifetime}
}

// Issue формирует HS256‑токен с identity‑клеймами пользователя.
func (s *TokenService) Issue(user *model.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify проверяет подпись и срок. Единый отказ ErrInvalidToken на любую причину.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
