package repo

import (
	"KVideo/internal/model"
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Жёсткий потолок пула соединений: при насыщении вызовы ждут, а не падают.
const maxOpenConns = 10

// Учётные данные первого администратора. Создаётся один раз при пустой таблице.
const (
	seedAdminUsername = "admin"
	seedAdminPassword = "Admin@1234"
)

// InitDB открывает Postgres, ограничивает пул, прогоняет миграции
// и создаёт стартового администратора.
func InitDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("empty database DSN")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxOpenConns)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	if err := SeedAdmin(context.Background(), db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate прогоняет автомиграции для всех серверных моделей.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.User{}, &model.UserData{})
}

// SeedAdmin создаёт единственного администратора, если его ещё нет.
// У администратора премиум включён (DisablePremium=false).
func SeedAdmin(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&model.User{}).
		Where("username = ?", seedAdminUsername).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(seedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &model.User{
		Username:       seedAdminUsername,
		PasswordHash:   string(hash),
		IsAdmin:        true,
		DisablePremium: false,
	}
	return db.WithContext(ctx).Create(admin).Error
}
