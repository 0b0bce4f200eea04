package service

import (
	"KVideo/internal/model"
	"KVideo/internal/repo"
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Ошибки уровня сервиса. Хендлеры мапят их на HTTP‑коды.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrMissingFields      = errors.New("username and password are required")
	ErrAdminImmutable     = errors.New("admin account cannot be modified this way")
	ErrDeleteForbidden    = errors.New("cannot delete admin account or yourself")
)

// MinPasswordLen — минимальная длина пароля при создании и смене.
const MinPasswordLen = 6

// UserService инкапсулирует бизнес-логику учётных записей:
// вход, смену пароля и админский CRUD.
type UserService struct {
	users repo.UserRepository
	data  repo.UserDataRepository
}

func NewUserService(users repo.UserRepository, data repo.UserDataRepository) *UserService {
	return &UserService{users: users, data: data}
}

// Login проверяет учётные данные и возвращает пользователя.
// Любая причина отказа сворачивается в ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, username, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, ErrMissingFields
	}
	u, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// ListUsers возвращает всех пользователей. Дайджесты наружу не выходят:
// маппинг в DTO делает слой хендлеров через auth.NewAuthUser.
func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.users.ListUsers(ctx)
}

// CreateUser создаёт обычного пользователя. Новые пользователи получают
// ограничительный дефолт disablePremium=true, если явно не передано false.
func (s *UserService) CreateUser(ctx context.Context, username, password string, disablePremium bool) (*model.User, error) {
	if username == "" || password == "" {
		return nil, ErrMissingFields
	}
	if len(password) < MinPasswordLen {
		return nil, ErrPasswordTooShort
	}
	// дружелюбный 409 до вставки; гонку дублей окончательно ловит
	// уникальный индекс в БД
	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		Username:       username,
		PasswordHash:   string(hash),
		DisablePremium: disablePremium,
	}
	return s.users.CreateUser(ctx, u)
}

// UserUpdate — частичное обновление. nil‑поле не трогается.
type UserUpdate struct {
	Username       *string
	Password       *string
	DisablePremium *bool
}

// UpdateUser применяет частичное обновление. Пустой набор полей — успешный
// no-op. Имя администратора неизменяемо; флаг is_admin не имеет пути записи
// вообще.
func (s *UserService) UpdateUser(ctx context.Context, id int64, upd UserUpdate) (*model.User, error) {
	target, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	updates := map[string]any{}
	if upd.Username != nil && *upd.Username != "" && *upd.Username != target.Username {
		if target.IsAdmin {
			return nil, ErrAdminImmutable
		}
		// уникальность перепроверяется только при смене имени
		if _, err := s.users.GetUserByUsername(ctx, *upd.Username); err == nil {
			return nil, ErrUsernameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		updates["username"] = *upd.Username
	}
	if upd.Password != nil && *upd.Password != "" {
		if len(*upd.Password) < MinPasswordLen {
			return nil, ErrPasswordTooShort
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		updates["password_hash"] = string(hash)
	}
	if upd.DisablePremium != nil {
		updates["disable_premium"] = *upd.DisablePremium
	}

	if err := s.users.UpdateUser(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.users.GetUserByID(ctx, id)
}

// DeleteUser удаляет пользователя. Админа и самого себя удалить нельзя.
// Бакеты удаляются каскадно вместе со строкой.
func (s *UserService) DeleteUser(ctx context.Context, id, callerID int64) error {
	if id == callerID {
		return ErrDeleteForbidden
	}
	target, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if target.IsAdmin {
		return ErrDeleteForbidden
	}
	return s.users.DeleteUser(ctx, id)
}

// ChangePassword меняет пароль пользователя после перепроверки текущего.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return ErrMissingFields
	}
	if len(newPassword) < MinPasswordLen {
		return ErrPasswordTooShort
	}
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(currentPassword)) != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdateUser(ctx, userID, map[string]any{"password_hash": string(hash)})
}
