package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminal_Confirm(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("y\nno\nYES\n"), &out)

	assert.True(t, term.Confirm("Delete?", "a.mkv"))
	assert.False(t, term.Confirm("Delete?", "b.mkv"))
	assert.True(t, term.Confirm("Delete?", "c.mkv"))
	// input exhausted
	assert.False(t, term.Confirm("Delete?", "d.mkv"))
	assert.Contains(t, out.String(), "a.mkv")
}

func TestTerminal_SelectOne(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("2\n9\nabc\n"), &out)
	opts := []string{"Cancel", "Process with confirmation", "Yes to All"}

	idx, ok := term.SelectOne("Batch Process", opts)
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = term.SelectOne("Batch Process", opts)
	assert.False(t, ok, "out of range")

	_, ok = term.SelectOne("Batch Process", opts)
	assert.False(t, ok, "not a number")

	_, ok = term.SelectOne("Batch Process", opts)
	assert.False(t, ok, "eof")

	assert.Contains(t, out.String(), "3) Yes to All")
}

func TestTerminal_Notify(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader(""), &out)
	term.Notify("Batch", "Batch complete", SeverityInfo)
	assert.Contains(t, out.String(), "Batch complete")
}

func TestScripted(t *testing.T) {
	s := &Scripted{Answers: []bool{false}, DefaultAnswer: true, Choices: []int{-1}, DefaultChoice: 2}

	assert.False(t, s.Confirm("a", "b"))
	assert.True(t, s.Confirm("a", "c"))

	_, ok := s.SelectOne("t", []string{"x", "y", "z"})
	assert.False(t, ok)
	idx, ok := s.SelectOne("t", []string{"x", "y", "z"})
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	s.Notify("n", "hello", SeverityError)
	s.RefreshView()
	assert.Equal(t, []string{"hello"}, s.Messages())
	assert.Equal(t, 1, s.Refreshes)
	assert.Equal(t, []string{"a: b", "a: c"}, s.Confirms)
}

func TestScripted_Echo(t *testing.T) {
	var out bytes.Buffer
	s := &Scripted{Echo: NewTerminal(strings.NewReader(""), &out)}

	s.Notify("Moved", "a.mkv", SeverityInfo)
	assert.Equal(t, []string{"a.mkv"}, s.Messages())
	assert.Contains(t, out.String(), "a.mkv")
}
