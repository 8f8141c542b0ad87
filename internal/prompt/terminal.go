package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffb347"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff6b6b"))
)

// Terminal prompts on a line-oriented reader/writer pair, usually
// stdin/stdout. End of input answers "no" and cancels selections.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal creates a Terminal prompter.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

func (t *Terminal) readLine() (string, bool) {
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}

// Confirm implements Confirmer.
func (t *Terminal) Confirm(title, message string) bool {
	fmt.Fprintf(t.out, "%s %s [y/N]: ", titleStyle.Render(title+":"), message)
	line, ok := t.readLine()
	if !ok {
		fmt.Fprintln(t.out)
		return false
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// SelectOne implements Selector. Options are numbered from 1.
func (t *Terminal) SelectOne(title string, options []string) (int, bool) {
	fmt.Fprintln(t.out, titleStyle.Render(title))
	for i, opt := range options {
		fmt.Fprintf(t.out, "  %d) %s\n", i+1, opt)
	}
	fmt.Fprint(t.out, "> ")

	line, ok := t.readLine()
	if !ok {
		fmt.Fprintln(t.out)
		return -1, false
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(options) {
		return -1, false
	}
	return n - 1, true
}

// Notify implements Notifier.
func (t *Terminal) Notify(title, message string, severity Severity) {
	head := title + ":"
	switch severity {
	case SeverityWarning:
		head = warnStyle.Render(head)
	case SeverityError:
		head = errStyle.Render(head)
	default:
		head = titleStyle.Render(head)
	}
	fmt.Fprintf(t.out, "%s %s\n", head, message)
}

// RefreshView implements Refresher. A scrolling terminal has nothing to redraw.
func (t *Terminal) RefreshView() {}
