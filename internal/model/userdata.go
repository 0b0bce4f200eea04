package model

import "time"

// UserData — серверный бакет: JSON‑блоб пользователя под фиксированным ключом.
// Одна строка на пару (user_id, data_key); отсутствующий бакет читается как "{}".
type UserData struct {
	UserID  int64  `gorm:"primaryKey;autoIncrement:false"`
	DataKey string `gorm:"primaryKey;size:100"`

	// Связь: удаление пользователя каскадно удаляет его бакеты
	User *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	DataValue string    `gorm:"type:text"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Допустимые ключи бакетов. Любой другой ключ отклоняется и на чтение, и на запись.
const (
	KeySettings         = "settings"
	KeyHistory          = "history"
	KeyFavorites        = "favorites"
	KeySearchHistory    = "search-history"
	KeyPremiumHistory   = "premium-history"
	KeyPremiumFavorites = "premium-favorites"
	KeySearchCache      = "search-cache"
	KeyPremiumTags      = "premium-tags"
)

var validDataKeys = map[string]struct{}{
	KeySettings:         {},
	KeyHistory:          {},
	KeyFavorites:        {},
	KeySearchHistory:    {},
	KeyPremiumHistory:   {},
	KeyPremiumFavorites: {},
	KeySearchCache:      {},
	KeyPremiumTags:      {},
}

// ValidDataKey сообщает, входит ли key в фиксированный набор ключей бакетов.
func ValidDataKey(key string) bool {
	_, ok := validDataKeys[key]
	return ok
}
