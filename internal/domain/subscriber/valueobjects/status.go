package valueobjects

// SubscriberStatus values are persisted and exposed in Portuguese, matching
// what the club's operators and reports use.
type SubscriberStatus string

const (
	StatusAtivo   SubscriberStatus = "ativo"
	StatusVencido SubscriberStatus = "vencido"
	StatusInativo SubscriberStatus = "inativo"
)

var ValidStatuses = map[SubscriberStatus]bool{
	StatusAtivo:   true,
	StatusVencido: true,
	StatusInativo: true,
}

func (s SubscriberStatus) String() string {
	return string(s)
}

func (s SubscriberStatus) IsValid() bool {
	return ValidStatuses[s]
}

// HasAccess reports whether the subscriber may use partner benefits.
func (s SubscriberStatus) HasAccess() bool {
	return s == StatusAtivo
}

// CanTransitionTo lists the moves gateway events and the sweeper may make.
// Operators bypass it through SetStatus.
func (s SubscriberStatus) CanTransitionTo(target SubscriberStatus) bool {
	transitions := map[SubscriberStatus][]SubscriberStatus{
		StatusInativo: {StatusAtivo},
		StatusAtivo:   {StatusVencido, StatusInativo},
		StatusVencido: {StatusAtivo, StatusInativo},
	}

	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}
