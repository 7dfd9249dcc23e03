package models

import "time"

// Order is a row of the orders table. The aggregate itself lives in Payload as JSON;
// the remaining columns are projections used for lookups.
type Order struct {
	OrderID    string    `db:"order_id"`
	State      string    `db:"state"`
	CustomerID *string   `db:"customer_id"`
	IsCart     bool      `db:"is_cart"`
	Payload    []byte    `db:"payload"`
	UpdatedAt  time.Time `db:"updated_at"`
}
