// Package prompt defines the user-facing collaborators the batch engine
// talks to: yes/no confirmations, option selection, notifications and view
// refresh. The terminal browser, the line-oriented CLI and tests each
// provide their own implementation.
package prompt

// Severity classifies a notification.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a short severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Confirmer asks a synchronous yes/no question.
type Confirmer interface {
	Confirm(title, message string) bool
}

// Selector asks the user to pick one of options.
// ok is false when the prompt was cancelled.
type Selector interface {
	SelectOne(title string, options []string) (index int, ok bool)
}

// Notifier shows a fire-and-forget message.
type Notifier interface {
	Notify(title, message string, severity Severity)
}

// Refresher tells the presentation layer its content is stale.
type Refresher interface {
	RefreshView()
}

// UI bundles every collaborator.
type UI interface {
	Confirmer
	Selector
	Notifier
	Refresher
}
