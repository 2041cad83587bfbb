package notifications

// Notifier delivers human-facing alerts.
type Notifier interface {
	// SendAlert sends an alert with the specified level and message.
	SendAlert(level, message string) error
}

// CommandKind identifies an inbound operator command.
type CommandKind string

const (
	CommandApprove CommandKind = "approve"
	CommandReject  CommandKind = "reject"
	CommandTest    CommandKind = "test"
)

// Command is a parsed operator instruction from the chat channel.
type Command struct {
	Kind     CommandKind
	SignalID string
	ChatID   string
}
