package cart

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/partsline/storefront/internal/domain"
	"github.com/partsline/storefront/pkg/logger"
)

const (
	// KeyPrefix — фиксированный префикс ключа корзины в key-value хранилище.
	KeyPrefix = "cart:v1:"

	// payloadVersion — версия схемы персистентного представления корзины.
	payloadVersion = 1
)

// payload — персистентное представление корзины. Сохраняются только позиции:
// производные значения (ItemCount, Total) выводятся из них заново при
// регидрации и в хранилище не попадают.
type payload struct {
	Version int                   `json:"version"`
	Items   []domain.CartLineItem `json:"items"`
}

// totals — мемоизированные производные значения корзины.
// Валидны, пока generation совпадает с поколением items.
type totals struct {
	generation uint64
	itemCount  int64
	total      int64
}

// Store — агрегирующая корзина: упорядоченный набор позиций с индексом по
// ProductID и мемоизированными производными суммами. Все мутации защищены
// мьютексом и атомарны с точки зрения вызывающего; ни одна операция не
// возвращает пользовательскую ошибку. Запись в хранилище — best-effort:
// сбой логируется и не прерывает работу корзины.
type Store struct {
	mu         sync.Mutex
	items      []domain.CartLineItem
	index      map[int64]int // ProductID -> позиция в items
	generation uint64
	memo       totals
	storage    Storage
	key        string
	logger     logger.Logger
}

// NewStore создает корзину и регидрирует её из хранилища. Отсутствующий,
// повреждённый или несовместимый по версии payload даёт пустую корзину.
func NewStore(ctx context.Context, storage Storage, sessionID string, logger logger.Logger) *Store {
	s := &Store{
		index:   make(map[int64]int),
		storage: storage,
		key:     KeyPrefix + sessionID,
		logger:  logger,
	}

	s.rehydrate(ctx)
	return s
}

// AddToCart добавляет товар в корзину: существующая позиция увеличивает
// количество на 1, новая вставляется в конец с количеством 1.
func (s *Store) AddToCart(ctx context.Context, product domain.CartLineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.copyItems()
	if pos, ok := s.index[product.ProductID]; ok {
		items[pos].Quantity++
	} else {
		product.Quantity = 1
		items = append(items, product)
	}

	s.replaceItems(ctx, items)
}

// RemoveFromCart удаляет позицию с указанным товаром.
// Отсутствие товара в корзине — no-op, не ошибка.
func (s *Store) RemoveFromCart(ctx context.Context, productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[productID]
	if !ok {
		return
	}

	items := make([]domain.CartLineItem, 0, len(s.items)-1)
	items = append(items, s.items[:pos]...)
	items = append(items, s.items[pos+1:]...)

	s.replaceItems(ctx, items)
}

// UpdateQuantity устанавливает количество для позиции, ограничивая его снизу
// единицей: некорректный ввод молча нормализуется, а не отклоняется.
// Отсутствие товара в корзине — no-op.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, quantity int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[productID]
	if !ok {
		return
	}

	if quantity < 1 {
		quantity = 1
	}

	items := s.copyItems()
	items[pos].Quantity = quantity

	s.replaceItems(ctx, items)
}

// ClearCart опустошает корзину и сбрасывает производные значения.
func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.replaceItems(ctx, []domain.CartLineItem{})
}

// GetItem возвращает позицию корзины по товару через индекс.
func (s *Store) GetItem(productID int64) (domain.CartLineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[productID]
	if !ok {
		return domain.CartLineItem{}, false
	}

	return s.items[pos], true
}

// GetItemQuantity возвращает количество товара в корзине, 0 если его нет.
func (s *Store) GetItemQuantity(productID int64) int64 {
	item, ok := s.GetItem(productID)
	if !ok {
		return 0
	}

	return item.Quantity
}

// IsItemInCart сообщает, есть ли товар в корзине.
func (s *Store) IsItemInCart(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.index[productID]
	return ok
}

// Items возвращает копию позиций в порядке добавления.
func (s *Store) Items() []domain.CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.copyItems()
}

// ItemCount возвращает суммарное количество единиц товара в корзине.
func (s *Store) ItemCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	itemCount, _ := s.derived()
	return itemCount
}

// Total возвращает суммарную стоимость корзины в центах.
func (s *Store) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, total := s.derived()
	return total
}

// derived возвращает мемоизированные производные значения, пересчитывая их
// одним проходом при несовпадении поколения. Пересчёт с нуля корректен
// всегда, мемоизация — только оптимизация.
func (s *Store) derived() (int64, int64) {
	if s.memo.generation != s.generation {
		itemCount, total := computeTotals(s.items)
		s.memo = totals{
			generation: s.generation,
			itemCount:  itemCount,
			total:      total,
		}
	}

	return s.memo.itemCount, s.memo.total
}

// computeTotals суммирует производные значения по полному набору позиций.
func computeTotals(items []domain.CartLineItem) (itemCount int64, total int64) {
	for _, item := range items {
		itemCount += item.Quantity
		total += item.Subtotal()
	}

	return itemCount, total
}

// replaceItems подменяет набор позиций новой коллекцией, перестраивает
// индекс, инвалидирует мемоизацию и планирует запись в хранилище.
// Вызывается только под мьютексом.
func (s *Store) replaceItems(ctx context.Context, items []domain.CartLineItem) {
	s.items = items
	s.generation++

	s.index = make(map[int64]int, len(items))
	for i, item := range items {
		s.index[item.ProductID] = i
	}

	s.persist(ctx)
}

// copyItems возвращает копию слайса позиций: мутации никогда не меняют
// ранее выданные наборы, чтобы потребители могли полагаться на
// неизменность ссылок.
func (s *Store) copyItems() []domain.CartLineItem {
	items := make([]domain.CartLineItem, len(s.items))
	copy(items, s.items)
	return items
}

// persist сохраняет позиции корзины в хранилище. Ошибки сериализации и
// записи логируются и не прерывают операцию.
func (s *Store) persist(ctx context.Context) {
	if len(s.items) == 0 {
		if err := s.storage.Remove(ctx, s.key); err != nil {
			s.logger.Warnf("cart persist: remove %s failed: %v", s.key, err)
		}
		return
	}

	data, err := json.Marshal(payload{Version: payloadVersion, Items: s.items})
	if err != nil {
		s.logger.Warnf("cart persist: marshal %s failed: %v", s.key, err)
		return
	}

	if err := s.storage.Set(ctx, s.key, string(data)); err != nil {
		s.logger.Warnf("cart persist: set %s failed: %v", s.key, err)
	}
}

// rehydrate восстанавливает позиции из хранилища. Производные значения не
// читаются из персистентного представления, а пересчитываются по позициям.
func (s *Store) rehydrate(ctx context.Context) {
	value, found, err := s.storage.Get(ctx, s.key)
	if err != nil {
		s.logger.Warnf("cart rehydrate: get %s failed: %v", s.key, err)
		return
	}
	if !found {
		return
	}

	var p payload
	if err := json.Unmarshal([]byte(value), &p); err != nil {
		s.logger.Warnf("cart rehydrate: corrupt payload at %s: %v", s.key, err)
		return
	}
	if p.Version != payloadVersion {
		s.logger.Warnf("cart rehydrate: unsupported payload version %d at %s", p.Version, s.key)
		return
	}

	items := make([]domain.CartLineItem, 0, len(p.Items))
	index := make(map[int64]int, len(p.Items))
	for _, item := range p.Items {
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		// Дубликаты по ProductID схлопываются в первую позицию
		if pos, ok := index[item.ProductID]; ok {
			items[pos].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(items)
		items = append(items, item)
	}

	s.items = items
	s.index = index
	s.generation++
}
