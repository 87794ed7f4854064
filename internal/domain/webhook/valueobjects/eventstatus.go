package valueobjects

type EventStatus string

const (
	EventStatusReceived   EventStatus = "received"
	EventStatusProcessing EventStatus = "processing"
	EventStatusProcessed  EventStatus = "processed"
	EventStatusIgnored    EventStatus = "ignored"
	EventStatusFailed     EventStatus = "failed"
)

var ValidEventStatuses = map[EventStatus]bool{
	EventStatusReceived:   true,
	EventStatusProcessing: true,
	EventStatusProcessed:  true,
	EventStatusIgnored:    true,
	EventStatusFailed:     true,
}

func (s EventStatus) IsValid() bool {
	return ValidEventStatuses[s]
}

// IsDone reports whether the event reached a successful outcome. Redeliveries
// of a done event are acknowledged without touching any state.
func (s EventStatus) IsDone() bool {
	return s == EventStatusProcessed || s == EventStatusIgnored
}

func (s EventStatus) String() string {
	return string(s)
}
