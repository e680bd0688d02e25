package domain

import "time"

// Rating — агрегированная оценка товара.
type Rating struct {
	Rate  float64
	Count int64
}

// Product описывает товар каталога автозапчастей
type Product struct {
	ID          int64
	Title       string
	Price       int64 // Цена хранится в центах
	CategoryID  int64
	Description string
	ImageKeys   []string
	Rating      Rating
	Specs       map[string]string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	IsArchived  bool
}

func NewProduct(title string, price int64, categoryID int64, description string, specs map[string]string) *Product {
	return &Product{
		Title:       title,
		Price:       price,
		CategoryID:  categoryID,
		Description: description,
		Specs:       specs,
	}
}
