package repo

import (
	"KVideo/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserDataRepository — контракт доступа к бакетам пользовательских данных.
type UserDataRepository interface {
	// GetValue возвращает JSON‑текст бакета. Отсутствующая строка — "{}".
	GetValue(ctx context.Context, userID int64, key string) (string, error)

	// SetValue вставляет или перезаписывает бакет целиком (upsert).
	SetValue(ctx context.Context, userID int64, key, value string) error

	// DeleteAll удаляет все бакеты пользователя.
	DeleteAll(ctx context.Context, userID int64) error
}

type userDataRepo struct {
	db *gorm.DB
}

// NewUserDataRepository создаёт реализацию репозитория для UserData.
func NewUserDataRepository(db *gorm.DB) UserDataRepository {
	return &userDataRepo{db: db}
}

func (r *userDataRepo) GetValue(ctx context.Context, userID int64, key string) (string, error) {
	var row model.UserData
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND data_key = ?", userID, key).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "{}", nil
		}
		return "", err
	}
	if row.DataValue == "" {
		return "{}", nil
	}
	return row.DataValue, nil
}

func (r *userDataRepo) SetValue(ctx context.Context, userID int64, key, value string) error {
	row := &model.UserData{UserID: userID, DataKey: key, DataValue: value}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "data_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data_value", "updated_at"}),
	}).Create(row).Error
}

func (r *userDataRepo) DeleteAll(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.UserData{}).Error
}
