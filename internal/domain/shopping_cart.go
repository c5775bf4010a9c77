package domain

// ShoppingCart is an append-only checkout record. It is never updated or
// deleted after creation; Datetime is assigned server-side.
type ShoppingCart struct {
	ID       int64   `json:"id" db:"id"`
	Datetime string  `json:"datetime" db:"datetime"`
	Fullname string  `json:"fullname" db:"fullname"`
	Email    string  `json:"email" db:"email"`
	Total    float64 `json:"total" db:"total"`
}
