// Package batch queues move and delete requests and runs them one by one
// under an advisory run lock, checkpointing the remaining work after every
// item so an interrupted run can be resumed.
package batch

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/litescript/ls-media-shuttle/internal/logger"
	"github.com/litescript/ls-media-shuttle/internal/prompt"
)

// QueueFileName is the name of the persisted queue inside the profile dir.
const QueueFileName = "batchlist.json"

// Queue errors.
var (
	ErrStorageUnavailable = errors.New("batch list storage unavailable")
	ErrInvalidAction      = errors.New("invalid batch action")
)

// Action is what to do with a queued path.
type Action string

const (
	ActionMove   Action = "move"
	ActionDelete Action = "delete"
)

// ParseAction validates s as an Action.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionMove, ActionDelete:
		return Action(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAction, s)
}

// Entry is one queued request. The (Path, Action) pair is its identity.
type Entry struct {
	Path   string `json:"path"`
	Action Action `json:"action"`
}

// QueueUI is what the queue reports to.
type QueueUI interface {
	prompt.Notifier
	prompt.Refresher
}

// Queue is the ordered list of pending entries, stored as one JSON file.
// Every change reads the whole list and rewrites it atomically.
type Queue struct {
	fs   afero.Fs
	path string
	ui   QueueUI
}

// NewQueue creates a queue persisted at path.
func NewQueue(fs afero.Fs, path string, ui QueueUI) *Queue {
	return &Queue{fs: fs, path: path, ui: ui}
}

// Path returns the location of the queue file.
func (q *Queue) Path() string {
	return q.path
}

// Load returns the persisted entries. A missing file is an empty queue;
// an unreadable or corrupt one is reported and also treated as empty.
func (q *Queue) Load() []Entry {
	data, err := afero.ReadFile(q.fs, q.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}
		}
		q.storageWarning("Could not load batch list", err)
		return []Entry{}
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		q.storageWarning("Could not load batch list", err)
		return []Entry{}
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries
}

// Replace overwrites the persisted queue with entries.
func (q *Queue) Replace(entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(q.fs, q.path, data); err != nil {
		q.storageWarning("Could not save batch list", err)
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// Contains reports whether (path, action) is queued.
func (q *Queue) Contains(path string, action Action) bool {
	for _, e := range q.Load() {
		if e.Path == path && e.Action == action {
			return true
		}
	}
	return false
}

// Add appends (path, action) unless it is already queued.
// It reports whether the entry was added.
func (q *Queue) Add(path string, action Action) (bool, error) {
	if _, err := ParseAction(string(action)); err != nil {
		return false, err
	}

	entries := q.Load()
	for _, e := range entries {
		if e.Path == path && e.Action == action {
			q.ui.Notify("Batch", "Item already in batch", prompt.SeverityInfo)
			return false, nil
		}
	}

	entries = append(entries, Entry{Path: path, Action: action})
	if err := q.Replace(entries); err != nil {
		return false, err
	}
	logger.Info().Str("path", path).Str("action", string(action)).Msg("added to batch")
	q.ui.Notify("Batch", fmt.Sprintf("Added for %s", action), prompt.SeverityInfo)
	return true, nil
}

// Remove drops every entry matching (path, action) and refreshes the view.
func (q *Queue) Remove(path string, action Action) error {
	entries := q.Load()
	kept := entries[:0]
	for _, e := range entries {
		if e.Path == path && e.Action == action {
			continue
		}
		kept = append(kept, e)
	}

	err := q.Replace(kept)
	if err == nil {
		q.ui.Notify("Batch", "Removed item from batch", prompt.SeverityInfo)
	}
	q.ui.RefreshView()
	return err
}

func (q *Queue) storageWarning(msg string, err error) {
	logger.Warn().Err(err).Str("path", q.path).Msg(msg)
	q.ui.Notify("Batch", msg, prompt.SeverityError)
}

// writeFileAtomic writes data next to path and renames it into place.
func writeFileAtomic(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = fs.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return fs.Rename(tmpName, path)
}
