package domain

import "time"

type ItemType string

const (
	ItemApple  ItemType = "apple"
	ItemBanana ItemType = "banana"
)

// Catalog is the fixed two-item menu. Prices are in minor currency units
// and are not user-editable.
var Catalog = map[ItemType]int64{
	ItemApple:  250,
	ItemBanana: 150,
}

func (t ItemType) Valid() bool {
	_, ok := Catalog[t]
	return ok
}

type Status string

const (
	StatusPending Status = "pending"
	StatusServed  Status = "served" // terminal
)

type OrderLine struct {
	ID           int64     `json:"id"`
	LocalID      string    `json:"local_id,omitempty"` // provisional, set before commit only
	Item         ItemType  `json:"item"`
	Price        int64     `json:"price"`
	TicketNumber int64     `json:"ticket_number"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// Label is the cyclic human-facing number for this line's ticket.
func (l OrderLine) Label() int64 { return DisplayLabel(l.TicketNumber) }
