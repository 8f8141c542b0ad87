package prompt

import "sync"

// Notification is a recorded Notify call.
type Notification struct {
	Title    string
	Message  string
	Severity Severity
}

// Scripted answers prompts from preset values and records every call.
// It backs --yes on the command line and the tests.
//
// Confirm answers pop from Answers; when it is exhausted DefaultAnswer is
// used. SelectOne works the same way with Choices and DefaultChoice; a
// negative choice means cancelled. Notifications are forwarded to Echo
// when it is set.
type Scripted struct {
	mu sync.Mutex

	Echo Notifier

	Answers       []bool
	DefaultAnswer bool
	Choices       []int
	DefaultChoice int

	Confirms      []string
	Selections    []string
	Notifications []Notification
	Refreshes     int
}

// Confirm implements Confirmer.
func (s *Scripted) Confirm(title, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Confirms = append(s.Confirms, title+": "+message)
	if len(s.Answers) == 0 {
		return s.DefaultAnswer
	}
	a := s.Answers[0]
	s.Answers = s.Answers[1:]
	return a
}

// SelectOne implements Selector.
func (s *Scripted) SelectOne(title string, options []string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Selections = append(s.Selections, title)
	c := s.DefaultChoice
	if len(s.Choices) > 0 {
		c = s.Choices[0]
		s.Choices = s.Choices[1:]
	}
	if c < 0 || c >= len(options) {
		return -1, false
	}
	return c, true
}

// Notify implements Notifier.
func (s *Scripted) Notify(title, message string, severity Severity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Notifications = append(s.Notifications, Notification{Title: title, Message: message, Severity: severity})
	if s.Echo != nil {
		s.Echo.Notify(title, message, severity)
	}
}

// RefreshView implements Refresher.
func (s *Scripted) RefreshView() {
	s.mu.Lock()
	s.Refreshes++
	s.mu.Unlock()
}

// Messages returns the recorded notification messages in order.
func (s *Scripted) Messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.Notifications))
	for _, n := range s.Notifications {
		out = append(out, n.Message)
	}
	return out
}
