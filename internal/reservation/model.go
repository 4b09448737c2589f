package reservation

import "time"

// Reservation is one pre-registration record. JSON tags match the wire shape
// the web surfaces persist and exchange.
type Reservation struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Interests []string  `json:"interests"`
	CreatedAt time.Time `json:"createdAt"`
}

// Fields is a reservation without its store-assigned identity.
type Fields struct {
	Name      string
	Email     string
	Interests []string
}

// Partial carries the fields an update may merge into an existing record.
// Nil pointers leave the current value untouched. CreatedAt is immutable and
// deliberately absent.
type Partial struct {
	Name      *string
	Email     *string
	Interests []string
}
