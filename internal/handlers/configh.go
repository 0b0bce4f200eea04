package handlers

import (
	"KVideo/internal/auth"
	"KVideo/internal/config"
	"net/http"

	"go.uber.org/zap"
)

// ConfigHandler отдаёт клиенту производные от конфигурации значения.
// Секреты и параметры подключения наружу не выходят никогда.
type ConfigHandler struct {
	Resolver *auth.Resolver
	Logger   *zap.SugaredLogger
	Config   *config.Config
}

func NewConfigHandler(resolver *auth.Resolver, logger *zap.SugaredLogger, cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{Resolver: resolver, Logger: logger, Config: cfg}
}

// Get возвращает источники подписок и свежий флаг disablePremium.
// Если пользователь не резолвится — ограничительный дефолт true.
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	disablePremium := true
	if user, err := resolveUser(r, h.Resolver); err == nil {
		disablePremium = user.DisablePremium
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"subscriptionSources": h.Config.SubscriptionSources,
		"disablePremium":      disablePremium,
	})
}
