package auth

import (
	"KVideo/internal/model"
	"KVideo/internal/repo"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrNotAuthenticated — пользователь не установлен: токена нет, токен плохой
// или учётная запись уже удалена.
var ErrNotAuthenticated = errors.New("not authenticated")

// AuthUser — текущая identity для хендлеров. Роль и DisablePremium здесь
// всегда свежие, из строки БД, а не из токена.
type AuthUser struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	IsAdmin        bool   `json:"isAdmin"`
	DisablePremium bool   `json:"disablePremium"`
	CreatedAt      string `json:"createdAt,omitempty"`
}

// Resolver перечитывает пользователя из хранилища по клеймам токена.
// Валидность токена необходима, но недостаточна: удалённый или изменённый
// администратором пользователь отражается на следующем же запросе,
// не дожидаясь перевыпуска токена.
type Resolver struct {
	users repo.UserRepository
}

func NewResolver(users repo.UserRepository) *Resolver {
	return &Resolver{users: users}
}

// CurrentUser резолвит identity по клеймам. Из токена берётся только UserID.
func (r *Resolver) CurrentUser(ctx context.Context, claims *Claims) (*AuthUser, error) {
	if claims == nil {
		return nil, ErrNotAuthenticated
	}
	u, err := r.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, err
	}
	return NewAuthUser(u), nil
}

// NewAuthUser переводит модель в представление для клиента (без дайджеста).
func NewAuthUser(u *model.User) *AuthUser {
	return &AuthUser{
		ID:             u.ID,
		Username:       u.Username,
		IsAdmin:        u.IsAdmin,
		DisablePremium: u.DisablePremium,
		CreatedAt:      u.CreatedAt.UTC().Format(time.RFC3339),
	}
}
