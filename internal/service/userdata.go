package service

import (
	"KVideo/internal/model"
	"KVideo/internal/repo"
	"context"
	"encoding/json"
	"errors"
)

// ErrInvalidDataKey — ключ вне фиксированного набора бакетов.
var ErrInvalidDataKey = errors.New("invalid data key")

// UserDataService — доступ к бакетам с валидацией ключа до любого I/O.
type UserDataService struct {
	data repo.UserDataRepository
}

func NewUserDataService(data repo.UserDataRepository) *UserDataService {
	return &UserDataService{data: data}
}

// Get возвращает распарсенный JSON бакета; отсутствующий бакет — пустой объект.
func (s *UserDataService) Get(ctx context.Context, userID int64, key string) (json.RawMessage, error) {
	if !model.ValidDataKey(key) {
		return nil, ErrInvalidDataKey
	}
	raw, err := s.data.GetValue(ctx, userID, key)
	if err != nil {
		return nil, err
	}
	// хранится текст; защищаемся от мусора в строке
	if !json.Valid([]byte(raw)) {
		return json.RawMessage("{}"), nil
	}
	return json.RawMessage(raw), nil
}

// Set сериализует значение и перезаписывает бакет целиком.
func (s *UserDataService) Set(ctx context.Context, userID int64, key string, value json.RawMessage) error {
	if !model.ValidDataKey(key) {
		return ErrInvalidDataKey
	}
	if len(value) == 0 {
		value = json.RawMessage("{}")
	}
	return s.data.SetValue(ctx, userID, key, string(value))
}
