package domain

// Product is a catalog entry. Name is stored normalized (upper-cased,
// trimmed, accent-stripped) so comparisons are case/accent-insensitive.
type Product struct {
	ID            int64   `json:"id" db:"id"`
	Name          string  `json:"name" db:"name"`
	Description   *string `json:"description" db:"description"`
	ImageFileName string  `json:"imageFileName" db:"image_file_name"`
	Stock         int     `json:"stock" db:"stock"`
	Price         float64 `json:"price" db:"price"`
	IsPromotion   bool    `json:"isPromotion" db:"is_promotion"`
}

// DecrementItem is one line of an inventory decrement batch. It is a
// transient input and never persisted.
type DecrementItem struct {
	ID     int64
	Amount int
}
