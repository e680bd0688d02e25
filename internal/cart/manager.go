package cart

import (
	"context"
	"sync"

	"github.com/partsline/storefront/pkg/logger"
)

// Manager выдаёт по одной корзине на сессию: повторные обращения с тем же
// идентификатором сессии возвращают тот же экземпляр Store.
// Создаётся один раз при старте приложения и передаётся зависимостью.
type Manager struct {
	mu      sync.Mutex
	stores  map[string]*Store
	storage Storage
	logger  logger.Logger
}

func NewManager(storage Storage, logger logger.Logger) *Manager {
	return &Manager{
		stores:  make(map[string]*Store),
		storage: storage,
		logger:  logger,
	}
}

// Get возвращает корзину сессии, создавая и регидрируя её при первом
// обращении.
func (m *Manager) Get(ctx context.Context, sessionID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if store, ok := m.stores[sessionID]; ok {
		return store
	}

	store := NewStore(ctx, m.storage, sessionID, m.logger)
	m.stores[sessionID] = store
	return store
}

// Evict выбрасывает корзину сессии из памяти (например, после оформления
// заказа); персистентное состояние остаётся за Store.
func (m *Manager) Evict(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.stores, sessionID)
}
