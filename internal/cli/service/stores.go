package service

import (
	"KVideo/internal/cli/store"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// Имена локальных слотов совпадают с ключами browser storage веб-клиента.
const (
	SlotSettings         = "kvideo-settings"
	SlotHistory          = "kvideo-history-store"
	SlotFavorites        = "kvideo-favorites-store"
	SlotSearchHistory    = "kvideo-search-history"
	SlotPremiumHistory   = "kvideo-premium-history-store"
	SlotPremiumFavorites = "kvideo-premium-favorites-store"
)

// slotByKey — фиксированное соответствие серверных бакетов локальным слотам.
// Слоты вне карты никогда не синхронизируются; ключи search-cache и
// premium-tags адресуемы на сервере, но в гидрацию и карту не входят.
var slotByKey = map[string]string{
	"settings":          SlotSettings,
	"history":           SlotHistory,
	"favorites":         SlotFavorites,
	"search-history":    SlotSearchHistory,
	"premium-history":   SlotPremiumHistory,
	"premium-favorites": SlotPremiumFavorites,
}

var keyBySlot = func() map[string]string {
	m := make(map[string]string, len(slotByKey))
	for k, s := range slotByKey {
		m[s] = k
	}
	return m
}()

// BootKeys возвращает серверные ключи, гидрируемые при старте сессии,
// в стабильном порядке.
func BootKeys() []string {
	return []string{
		"settings",
		"history",
		"favorites",
		"search-history",
		"premium-history",
		"premium-favorites",
	}
}

// SlotForKey возвращает локальный слот для серверного ключа.
func SlotForKey(key string) (string, bool) {
	s, ok := slotByKey[key]
	return s, ok
}

// KeyForSlot возвращает серверный ключ для локального слота.
func KeyForSlot(slot string) (string, bool) {
	k, ok := keyBySlot[slot]
	return k, ok
}

// ReactiveStore — типизированное представление над одним слотом кэша.
// Rehydrate перечитывает состояние из сырого значения слота.
type ReactiveStore interface {
	Slot() string
	Rehydrate(raw string)
}

// Registry держит все реактивные сторы клиента и умеет перегидрировать
// их разом после того, как boot перезаписал слоты серверными данными.
type Registry struct {
	mu     sync.Mutex
	stores []ReactiveStore
}

func (r *Registry) Register(s ReactiveStore) {
	r.mu.Lock()
	r.stores = append(r.stores, s)
	r.mu.Unlock()
}

// RehydrateAll перечитывает каждый зарегистрированный стор из кэша.
// Ненаписанный слот даёт Rehydrate(""), стор сбрасывается в пустое состояние.
func (r *Registry) RehydrateAll(cache *store.Cache) error {
	r.mu.Lock()
	stores := make([]ReactiveStore, len(r.stores))
	copy(stores, r.stores)
	r.mu.Unlock()
	for _, s := range stores {
		raw, ok, err := cache.Get(s.Slot())
		if err != nil {
			return fmt.Errorf("rehydrate %s: %w", s.Slot(), err)
		}
		if !ok {
			raw = ""
		}
		s.Rehydrate(raw)
	}
	return nil
}

// SlotStore — минимальный реактивный стор: хранит сырое значение слота.
// История, избранное и поисковая история используют его как есть.
type SlotStore struct {
	slot string

	mu     sync.RWMutex
	raw    string
	loaded bool
}

func NewSlotStore(slot string) *SlotStore {
	return &SlotStore{slot: slot}
}

func (s *SlotStore) Slot() string { return s.slot }

func (s *SlotStore) Rehydrate(raw string) {
	s.mu.Lock()
	s.raw = raw
	s.loaded = raw != ""
	s.mu.Unlock()
}

// Raw возвращает последнее гидрированное значение слота.
func (s *SlotStore) Raw() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.raw, s.loaded
}

// Subscription — источник подписки в документе настроек.
type Subscription struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	FromEnv bool   `json:"fromEnv,omitempty"`
}

type settingsDoc struct {
	Subscriptions []Subscription `json:"subscriptions"`
}

// SettingsStore — реактивный стор настроек с доступом к подпискам.
// Пишет изменения обратно в кэш, так что запись проходит через
// обычный путь синхронизации.
type SettingsStore struct {
	cache *store.Cache

	mu  sync.RWMutex
	doc map[string]json.RawMessage
}

func NewSettingsStore(cache *store.Cache) *SettingsStore {
	return &SettingsStore{cache: cache, doc: map[string]json.RawMessage{}}
}

func (s *SettingsStore) Slot() string { return SlotSettings }

func (s *SettingsStore) Rehydrate(raw string) {
	doc := map[string]json.RawMessage{}
	if raw != "" {
		// битый документ настроек считаем пустым
		_ = json.Unmarshal([]byte(raw), &doc)
	}
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
}

// Subscriptions возвращает текущий список подписок.
func (s *SettingsStore) Subscriptions() []Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var d settingsDoc
	if raw, ok := s.doc["subscriptions"]; ok {
		_ = json.Unmarshal(raw, &d.Subscriptions)
	}
	return d.Subscriptions
}

// SyncEnvSubscriptions вливает источники подписок из конфигурации сервера
// в документ настроек. Формат sources — список через запятую, элемент либо
// "name@url", либо просто url. Источники апсертятся по URL с пометкой
// fromEnv; добавленные пользователем подписки не трогаются. Результат
// пишется в кэш.
func (s *SettingsStore) SyncEnvSubscriptions(sources string) error {
	var incoming []Subscription
	for _, entry := range strings.Split(sources, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		sub := Subscription{URL: entry, FromEnv: true}
		if name, url, found := strings.Cut(entry, "@"); found && !strings.HasPrefix(entry, "http") {
			sub.Name = name
			sub.URL = url
		} else {
			sub.Name = entry
		}
		incoming = append(incoming, sub)
	}
	if len(incoming) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var subs []Subscription
	if raw, ok := s.doc["subscriptions"]; ok {
		_ = json.Unmarshal(raw, &subs)
	}
	byURL := make(map[string]int, len(subs))
	for i, sub := range subs {
		byURL[sub.URL] = i
	}
	for _, sub := range incoming {
		if i, ok := byURL[sub.URL]; ok {
			subs[i].Name = sub.Name
			subs[i].FromEnv = true
			continue
		}
		subs = append(subs, sub)
	}

	raw, err := json.Marshal(subs)
	if err != nil {
		return err
	}
	s.doc["subscriptions"] = raw
	full, err := json.Marshal(s.doc)
	if err != nil {
		return err
	}
	return s.cache.Set(SlotSettings, string(full))
}
