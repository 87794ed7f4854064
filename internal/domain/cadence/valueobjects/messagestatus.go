package valueobjects

type MessageStatus string

const (
	MessageStatusPending   MessageStatus = "pending"
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusFailed    MessageStatus = "failed"
	MessageStatusCancelled MessageStatus = "cancelled"
	MessageStatusSkipped   MessageStatus = "skipped"
)

var ValidMessageStatuses = map[MessageStatus]bool{
	MessageStatusPending:   true,
	MessageStatusSent:      true,
	MessageStatusFailed:    true,
	MessageStatusCancelled: true,
	MessageStatusSkipped:   true,
}

func (s MessageStatus) IsValid() bool {
	return ValidMessageStatuses[s]
}

// IsTerminal reports whether the step is finished and the next one in the
// run may be sent.
func (s MessageStatus) IsTerminal() bool {
	return s != MessageStatusPending && s.IsValid()
}

func (s MessageStatus) String() string {
	return string(s)
}
