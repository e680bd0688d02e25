package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID          int64             `db:"id"`
	Title       string            `db:"title"`
	Price       int64             `db:"price"`
	CategoryID  int64             `db:"category_id"`
	Description string            `db:"description"`
	ImageKeys   []string          `db:"image_keys"`
	RatingRate  float64           `db:"rating_rate"`
	RatingCount int64             `db:"rating_count"`
	Specs       map[string]string `db:"specs"`
	CreatedAt   time.Time         `db:"created_at"`
	UpdatedAt   *time.Time        `db:"updated_at"`
	IsArchived  bool              `db:"is_archived"`
}

// CategoryModel представляет запись таблицы categories в PostgreSQL.
type CategoryModel struct {
	ID         int64      `db:"id"`
	Name       string     `db:"name"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  *time.Time `db:"updated_at"`
	IsArchived bool       `db:"is_archived"`
}

// OrderModel представляет запись таблицы orders в PostgreSQL.
type OrderModel struct {
	ID         int64     `db:"id"`
	SessionID  string    `db:"session_id"`
	Total      int64     `db:"total"`
	ItemCount  int64     `db:"item_count"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	AggregateID int64      `db:"aggregate_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
