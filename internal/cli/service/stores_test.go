package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlotKeyMappingIsInjective(t *testing.T) {
	assert.Len(t, keyBySlot, len(slotByKey))
	for _, key := range BootKeys() {
		slot, ok := SlotForKey(key)
		assert.True(t, ok, key)
		back, ok := KeyForSlot(slot)
		assert.True(t, ok, slot)
		assert.Equal(t, key, back)
	}
	// серверные ключи вне карты синхронизации
	_, ok := SlotForKey("search-cache")
	assert.False(t, ok)
	_, ok = SlotForKey("premium-tags")
	assert.False(t, ok)
}

func TestRegistry_RehydrateAll_UnwrittenSlotResetsStore(t *testing.T) {
	cache := newSyncTestCache(t)
	reg := &Registry{}
	hist := NewSlotStore(SlotHistory)
	reg.Register(hist)

	hist.Rehydrate(`{"watched":["old"]}`)
	assert.NoError(t, reg.RehydrateAll(cache))
	_, loaded := hist.Raw()
	assert.False(t, loaded)

	assert.NoError(t, cache.Set(SlotHistory, `{"watched":["new"]}`))
	assert.NoError(t, reg.RehydrateAll(cache))
	raw, loaded := hist.Raw()
	assert.True(t, loaded)
	assert.Equal(t, `{"watched":["new"]}`, raw)
}

func TestSettingsStore_SyncEnvSubscriptions_Formats(t *testing.T) {
	cache := newSyncTestCache(t)
	s := NewSettingsStore(cache)
	s.Rehydrate("")

	// "name@url", голый url, пустые элементы и пробелы
	assert.NoError(t, s.SyncEnvSubscriptions("main@http://feeds/a.json, http://feeds/b.json ,,"))
	subs := s.Subscriptions()
	assert.Len(t, subs, 2)
	assert.Equal(t, "main", subs[0].Name)
	assert.Equal(t, "http://feeds/a.json", subs[0].URL)
	assert.True(t, subs[0].FromEnv)
	assert.Equal(t, "http://feeds/b.json", subs[1].URL)

	// повторное вливание не плодит дубликатов
	assert.NoError(t, s.SyncEnvSubscriptions("renamed@http://feeds/a.json"))
	subs = s.Subscriptions()
	assert.Len(t, subs, 2)
	assert.Equal(t, "renamed", subs[0].Name)
}

func TestSettingsStore_Rehydrate_KeepsUnknownFields(t *testing.T) {
	cache := newSyncTestCache(t)
	s := NewSettingsStore(cache)
	s.Rehydrate(`{"theme":"dark","subscriptions":[]}`)

	assert.NoError(t, s.SyncEnvSubscriptions("http://feeds/a.json"))
	raw, ok, err := cache.Get(SlotSettings)
	assert.NoError(t, err)
	assert.True(t, ok)
	// посторонние поля документа переживают слияние
	assert.Contains(t, raw, `"theme":"dark"`)
	assert.Contains(t, raw, "http://feeds/a.json")
}

func TestSettingsStore_Rehydrate_BrokenDocumentIsEmpty(t *testing.T) {
	cache := newSyncTestCache(t)
	s := NewSettingsStore(cache)
	s.Rehydrate(`{not json`)
	assert.Empty(t, s.Subscriptions())
}
