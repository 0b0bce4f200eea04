package model

import "time"

// User — учётная запись пользователя шлюза.
// IsAdmin неизменяем после создания: ни один эндпоинт не должен его переключать.
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Username string `gorm:"uniqueIndex;not null"`

	// bcrypt‑дайджест; наружу не отдаётся никогда
	PasswordHash string `gorm:"not null"`

	IsAdmin        bool `gorm:"not null;default:false"`
	DisablePremium bool `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}
