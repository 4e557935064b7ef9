// internal/purchasing/domain.go
package purchasing

import (
	"time"

	"shopsim/internal/membership"
)

// Tier holds the behaviour parameters of one membership tier.
type Tier struct {
	Name         string
	Status       membership.Status
	LoginRate    float64
	PurchaseRate float64
	MinAmount    int
	MaxAmount    int
}

var (
	FreeTier = Tier{
		Name:         "free",
		Status:       membership.StatusFree,
		LoginRate:    0.20,
		PurchaseRate: 0.30,
		MinAmount:    2000,
		MaxAmount:    10000,
	}
	PaidTier = Tier{
		Name:         "paid",
		Status:       membership.StatusPaid,
		LoginRate:    0.50,
		PurchaseRate: 0.50,
		MinAmount:    5000,
		MaxAmount:    20000,
	}
)

// Login records a member's most recent login time.
type Login struct {
	MemberID int64
	At       time.Time
}

// Purchase is one completed transaction. Member name and address are
// snapshots taken at purchase time.
type Purchase struct {
	ID              int64     `json:"id"`
	MemberID        int64     `json:"member_id"`
	MemberName      string    `json:"member_name"`
	ShippingAddress string    `json:"shipping_address"`
	PurchasedAt     time.Time `json:"purchased_at"`
	TotalAmount     int       `json:"total_amount"`
	Lines           []Line    `json:"lines"`
}

// Line is one product line of a purchase. Product name and unit price are
// snapshots of the catalog entry.
type Line struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	UnitPrice   int    `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	Subtotal    int    `json:"subtotal"`
}

// Basket is the output of BuildBasket.
type Basket struct {
	Lines []Line
	Total int
}

// TierActivity counts what one tier did on a day.
type TierActivity struct {
	Tier      string
	Active    int
	Logins    int
	Purchases int
	Revenue   int64
}

// Activity is the per-day result of the simulator.
type Activity struct {
	Free TierActivity
	Paid TierActivity
}

func (a Activity) Logins() int      { return a.Free.Logins + a.Paid.Logins }
func (a Activity) Purchases() int   { return a.Free.Purchases + a.Paid.Purchases }
func (a Activity) Revenue() int64   { return a.Free.Revenue + a.Paid.Revenue }
func (a Activity) ActiveCount() int { return a.Free.Active + a.Paid.Active }
