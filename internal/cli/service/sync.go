package service

import (
	"KVideo/internal/cli/api"
	"KVideo/internal/cli/store"
	"KVideo/internal/config"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultQuietPeriod — окно дебаунса перед отправкой бакета на сервер.
const DefaultQuietPeriod = 2 * time.Second

// PushFunc отправляет полное значение бакета на сервер.
type PushFunc func(key, value string) error

// NewServerPusher возвращает PushFunc поверх PUT /user/data.
func NewServerPusher(cfg *config.Config, token string) PushFunc {
	return func(key, value string) error {
		if !json.Valid([]byte(value)) {
			return fmt.Errorf("slot for %s holds invalid JSON", key)
		}
		payload := struct {
			Key   string          `json:"key"`
			Value json.RawMessage `json:"value"`
		}{Key: key, Value: json.RawMessage(value)}
		resp, body, err := api.PutJSON(context.Background(), cfg.ServerURL+"/user/data", payload, token)
		if err != nil {
			return err
		}
		if resp.StatusCode != 200 {
			return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil
	}
}

// Syncer дебаунсит записи слотов и проталкивает их на сервер.
// Каждый бакет дебаунсится независимо; новая запись в то же окно
// перезапускает таймер, так что уходит только последнее значение.
// Ошибки отправки логируются и отбрасываются.
type Syncer struct {
	cache  *store.Cache
	push   PushFunc
	logger *zap.SugaredLogger
	quiet  time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewSyncer(cache *store.Cache, push PushFunc, logger *zap.SugaredLogger) *Syncer {
	return &Syncer{
		cache:  cache,
		push:   push,
		logger: logger,
		quiet:  DefaultQuietPeriod,
		timers: make(map[string]*time.Timer),
	}
}

// SetQuietPeriod меняет окно дебаунса. Для тестов.
func (s *Syncer) SetQuietPeriod(d time.Duration) {
	s.mu.Lock()
	s.quiet = d
	s.mu.Unlock()
}

// Observe — наблюдатель кэша: вызывается после каждой записи слота.
// Слоты вне карты синхронизации игнорируются.
func (s *Syncer) Observe(slot, _ string) {
	key, ok := KeyForSlot(slot)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[key]; ok {
		t.Stop()
	}
	s.timers[key] = time.AfterFunc(s.quiet, func() {
		s.fire(key, slot)
	})
}

// fire читает актуальное значение слота и отправляет его целиком.
func (s *Syncer) fire(key, slot string) {
	s.mu.Lock()
	delete(s.timers, key)
	s.mu.Unlock()

	value, ok, err := s.cache.Get(slot)
	if err != nil {
		s.logger.Errorw("sync: read slot failed", "key", key, "error", err)
		return
	}
	if !ok {
		return
	}
	if err := s.push(key, value); err != nil {
		s.logger.Errorw("sync: push failed", "key", key, "error", err)
	}
}

// Flush немедленно отправляет все ожидающие бакеты, не дожидаясь таймеров.
// Вызывается перед завершением процесса CLI.
func (s *Syncer) Flush() {
	s.mu.Lock()
	pending := make([]string, 0, len(s.timers))
	for key, t := range s.timers {
		t.Stop()
		pending = append(pending, key)
	}
	s.mu.Unlock()
	for _, key := range pending {
		slot, _ := SlotForKey(key)
		s.fire(key, slot)
	}
}

// Stop отменяет все ожидающие отправки.
func (s *Syncer) Stop() {
	s.mu.Lock()
	for key, t := range s.timers {
		t.Stop()
		delete(s.timers, key)
	}
	s.mu.Unlock()
}
