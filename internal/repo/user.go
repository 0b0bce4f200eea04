package repo

import (
	"KVideo/internal/model"
	"context"

	"gorm.io/gorm"
)

// UserRepository — минимальный контракт доступа к User для слоя сервиса.
type UserRepository interface {
	// CreateUser вставляет новую учётную запись и возвращает её с заполненным ID.
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)

	// GetUserByUsername ищет пользователя по имени. Не найден — gorm.ErrRecordNotFound.
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)

	// GetUserByID ищет пользователя по id. Не найден — gorm.ErrRecordNotFound.
	GetUserByID(ctx context.Context, id int64) (*model.User, error)

	// ListUsers возвращает всех пользователей в порядке возрастания id.
	ListUsers(ctx context.Context) ([]model.User, error)

	// UpdateUser применяет частичное обновление к строке пользователя.
	// Пустой набор полей — no-op без обращения к БД.
	UpdateUser(ctx context.Context, id int64, updates map[string]any) error

	// DeleteUser удаляет пользователя по id. Бакеты удаляются каскадно (FK)
	// и продублированы явным удалением для хранилищ без enforcement FK.
	DeleteUser(ctx context.Context, id int64) error
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepository создаёт реализацию репозитория для User.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) UpdateUser(ctx context.Context, id int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates).Error
}

func (r *userRepo) DeleteUser(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.UserData{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, id).Error
	})
}
