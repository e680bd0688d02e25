package converter

type ProductInfoRedisModel struct {
	ID           int64             `json:"id"`
	Title        string            `json:"title"`
	CategoryName string            `json:"category_name"`
	Price        int64             `json:"price"`
	Description  string            `json:"description"`
	ImageKeys    []string          `json:"image_keys"`
	RatingRate   float64           `json:"rating_rate"`
	RatingCount  int64             `json:"rating_count"`
	Specs        map[string]string `json:"specs"`
}
