package domain

// CartLineItem — позиция корзины: товар и его количество.
// Ключом позиции служит ProductID, в корзине не бывает двух позиций
// с одним и тем же товаром.
type CartLineItem struct {
	ProductID int64  `json:"product_id"`
	Title     string `json:"title"`
	Price     int64  `json:"price"` // цена за единицу в центах
	Category  string `json:"category"`
	ImageKey  string `json:"image_key,omitempty"`
	Quantity  int64  `json:"quantity"`
}

// Subtotal возвращает стоимость позиции в центах.
func (i CartLineItem) Subtotal() int64 {
	return i.Price * i.Quantity
}
