package valueobjects

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusOverdue   PaymentStatus = "overdue"
	PaymentStatusConfirmed PaymentStatus = "confirmed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// rank orders statuses along a charge's life. A status only replaces one of
// lower rank, so late deliveries never move a charge backwards.
var rank = map[PaymentStatus]int{
	PaymentStatusPending:   1,
	PaymentStatusOverdue:   2,
	PaymentStatusConfirmed: 3,
	PaymentStatusRefunded:  4,
	PaymentStatusCancelled: 4,
}

func (s PaymentStatus) IsValid() bool {
	return rank[s] > 0
}

func (s PaymentStatus) Rank() int {
	return rank[s]
}

// Supersedes reports whether s may replace current.
func (s PaymentStatus) Supersedes(current PaymentStatus) bool {
	return rank[s] > rank[current]
}

func (s PaymentStatus) IsFinal() bool {
	return s == PaymentStatusRefunded || s == PaymentStatusCancelled
}

func (s PaymentStatus) String() string {
	return string(s)
}
