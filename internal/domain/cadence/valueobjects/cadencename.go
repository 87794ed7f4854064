package valueobjects

// CadenceName identifies a sequence in the catalog.
type CadenceName string

const (
	CadenceWelcome     CadenceName = "welcome"
	CadenceOverdue     CadenceName = "overdue"
	CadenceReactivated CadenceName = "reactivated"
)

func (n CadenceName) String() string {
	return string(n)
}
