package service

import (
	"KVideo/internal/cli/api"
	"KVideo/internal/cli/state"
	"KVideo/internal/cli/store"
	"KVideo/internal/config"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Bridge связывает локальный кэш клиента с серверными бакетами:
// гидрирует слоты при старте сессии и запускает дебаунс-синхронизацию
// обратных записей.
type Bridge struct {
	cfg     *config.Config
	token   string
	cache   *store.Cache
	session *state.Session
	logger  *zap.SugaredLogger

	registry *Registry
	settings *SettingsStore
	slots    map[string]*SlotStore
	syncer   *Syncer
}

func NewBridge(cfg *config.Config, token string, cache *store.Cache, session *state.Session, logger *zap.SugaredLogger) *Bridge {
	b := &Bridge{
		cfg:      cfg,
		token:    token,
		cache:    cache,
		session:  session,
		logger:   logger,
		registry: &Registry{},
		slots:    make(map[string]*SlotStore),
	}
	b.settings = NewSettingsStore(cache)
	b.registry.Register(b.settings)
	for _, slot := range []string{SlotHistory, SlotFavorites, SlotSearchHistory, SlotPremiumHistory, SlotPremiumFavorites} {
		s := NewSlotStore(slot)
		b.slots[slot] = s
		b.registry.Register(s)
	}
	b.syncer = NewSyncer(cache, NewServerPusher(cfg, token), logger)
	return b
}

// Settings возвращает стор настроек.
func (b *Bridge) Settings() *SettingsStore { return b.settings }

// Store возвращает слот-стор по имени слота.
func (b *Bridge) Store(slot string) (*SlotStore, bool) {
	s, ok := b.slots[slot]
	return s, ok
}

// Syncer возвращает дебаунс-синхронизатор моста.
func (b *Bridge) Syncer() *Syncer { return b.syncer }

// Boot выполняет последовательность старта сессии:
//  1. /auth/me — свежая личность с сервера в сессию процесса;
//  2. /config — источники подписок из окружения сервера;
//  3. конкурентная выборка шести бакетов, непустые перетирают слоты,
//     отказ одного ключа не трогает остальные;
//  4. перегидрация всех реактивных сторов и вливание env-подписок;
//  5. только после этого — подписка синхронизатора на записи кэша,
//     чтобы сама гидрация не породила обратных отправок.
func (b *Bridge) Boot(ctx context.Context) error {
	log := b.logger.With("boot", uuid.NewString())

	resp, body, err := api.GetJSON(ctx, b.cfg.ServerURL+"/auth/me", b.token)
	if err != nil {
		return fmt.Errorf("fetch identity: %w", err)
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("not authenticated: server returned status %d", resp.StatusCode)
	}
	var me struct {
		User state.User `json:"user"`
	}
	if err := json.Unmarshal(body, &me); err != nil {
		return fmt.Errorf("decode identity: %w", err)
	}
	if err := b.session.Init(me.User); err != nil {
		return err
	}
	log.Infow("session booted", "user", me.User.Username, "admin", me.User.IsAdmin)

	var envSources string
	if resp, body, err := api.GetJSON(ctx, b.cfg.ServerURL+"/config", b.token); err == nil && resp.StatusCode == 200 {
		var cfgResp struct {
			SubscriptionSources string `json:"subscriptionSources"`
		}
		if json.Unmarshal(body, &cfgResp) == nil {
			envSources = cfgResp.SubscriptionSources
		}
	} else {
		// конфиг не критичен для старта
		log.Warnw("fetch config failed", "error", err)
	}

	var wg sync.WaitGroup
	for _, key := range BootKeys() {
		slot, _ := SlotForKey(key)
		wg.Add(1)
		go func(key, slot string) {
			defer wg.Done()
			if err := b.hydrateKey(ctx, key, slot); err != nil {
				// отказ одного ключа не блокирует остальные
				log.Warnw("hydrate failed", "key", key, "error", err)
			}
		}(key, slot)
	}
	wg.Wait()

	if err := b.registry.RehydrateAll(b.cache); err != nil {
		return err
	}
	if envSources != "" {
		if err := b.settings.SyncEnvSubscriptions(envSources); err != nil {
			log.Warnw("merge env subscriptions failed", "error", err)
		}
	}

	b.cache.Subscribe(b.syncer.Observe)
	return nil
}

// hydrateKey забирает бакет с сервера и, если он непуст, перетирает слот.
func (b *Bridge) hydrateKey(ctx context.Context, key, slot string) error {
	u := b.cfg.ServerURL + "/user/data?key=" + url.QueryEscape(key)
	resp, body, err := api.GetJSON(ctx, u, b.token)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	var payload struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return err
	}
	raw := strings.TrimSpace(string(payload.Data))
	if raw == "" || raw == "null" || raw == "{}" {
		// пустой бакет не трогает локальный слот
		return nil
	}
	return b.cache.Set(slot, raw)
}
