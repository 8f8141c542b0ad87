// Package fileops performs the filesystem side of moving and deleting media:
// mirror-path moves with a copy fallback, recursive merge copies, best-effort
// recursive deletes and empty-directory pruning. All access goes through an
// afero.Fs so the same code runs against the OS or an in-memory tree.
package fileops

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/litescript/ls-media-shuttle/internal/location"
	"github.com/litescript/ls-media-shuttle/internal/logger"
	"github.com/litescript/ls-media-shuttle/internal/prompt"
)

// Operation errors.
var (
	ErrUnknownLocation  = location.ErrUnknownLocation
	ErrConflictDeclined = errors.New("overwrite declined")
	ErrDeletionDisabled = errors.New("deletion is disabled")
	ErrDeleteDeclined   = errors.New("delete declined")
	ErrTransferFailed   = errors.New("transfer failed")
	ErrMergeAborted     = errors.New("merge aborted")
)

// Mode says whether conflicts and deletes are confirmed one by one.
type Mode int

const (
	ModeAsk Mode = iota
	ModeConfirmAll
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeConfirmAll {
		return "confirm-all"
	}
	return "ask"
}

// ItemKind is what a path refers to. KindAuto inspects the filesystem.
type ItemKind int

const (
	KindAuto ItemKind = iota
	KindFile
	KindDir
)

// String returns the kind name.
func (k ItemKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	default:
		return "auto"
	}
}

// Outcome is the per-item result of a move or delete.
type Outcome int

const (
	OutcomeDone Outcome = iota
	OutcomeSkipped
	OutcomeFailed
	OutcomeDisabled
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeDone:
		return "done"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeDisabled:
		return "disabled"
	default:
		return "failed"
	}
}

// Dialog is what the mover needs from the user interface.
type Dialog interface {
	prompt.Confirmer
	prompt.Notifier
}

// Options configures a Mover.
type Options struct {
	Fs          afero.Fs
	Resolver    *location.Resolver
	Dialog      Dialog
	AllowDelete bool
}

// Mover moves items to their mirror location and deletes items.
type Mover struct {
	fs          afero.Fs
	resolver    *location.Resolver
	dialog      Dialog
	allowDelete bool
}

// NewMover creates a new Mover with the given options.
func NewMover(opts Options) *Mover {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Mover{
		fs:          fs,
		resolver:    opts.Resolver,
		dialog:      opts.Dialog,
		allowDelete: opts.AllowDelete,
	}
}

// Fs returns the filesystem the mover works on.
func (m *Mover) Fs() afero.Fs {
	return m.fs
}

// Move relocates src to its mirror path under the opposite tier.
//
// An existing destination is overwritten after confirmation (always under
// ModeConfirmAll); declining skips the item. A rename is tried first and,
// if it fails, src is copied into place and then deleted.
//
// Retrying after a failed copy may leave duplicated partial content at the
// destination.
func (m *Mover) Move(src string, kind ItemKind, mode Mode) (Outcome, error) {
	name := filepath.Base(src)

	dest, err := m.resolver.Mirror(src)
	if err != nil {
		m.dialog.Notify("Move failed", "Path not in known locations.", prompt.SeverityError)
		return OutcomeFailed, fmt.Errorf("move %s: %w", src, err)
	}

	if exists, _ := afero.Exists(m.fs, src); !exists {
		logger.Error().Str("path", src).Msg("move source missing")
		m.dialog.Notify("Error", fmt.Sprintf("Could not move %s", name), prompt.SeverityError)
		return OutcomeFailed, fmt.Errorf("move %s: %w: %v", src, ErrTransferFailed, os.ErrNotExist)
	}

	if kind == KindAuto {
		kind = KindFile
		if IsDir(m.fs, src) {
			kind = KindDir
		}
	}

	if exists, _ := afero.Exists(m.fs, dest); exists {
		if mode == ModeAsk && !m.dialog.Confirm("Already exists", fmt.Sprintf("Overwrite %s?", filepath.Base(dest))) {
			logger.Info().Str("path", src).Str("dest", dest).Msg("overwrite declined")
			return OutcomeSkipped, ErrConflictDeclined
		}
		if IsDir(m.fs, dest) {
			m.DeleteDir(dest)
		} else if err := m.fs.Remove(dest); err != nil {
			logger.Warn().Err(err).Str("dest", dest).Msg("remove existing destination")
		}
	}

	if err := m.fs.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		logger.Warn().Err(err).Str("dest", dest).Msg("create destination parent")
	}

	err = m.transfer(src, dest, kind, mode)
	if err != nil {
		logger.Error().Err(err).Str("path", src).Str("dest", dest).Msg("move failed")
		m.dialog.Notify("Error", fmt.Sprintf("Could not move %s", name), prompt.SeverityError)
		return OutcomeFailed, err
	}

	logger.Info().Str("path", src).Str("dest", dest).Str("kind", kind.String()).Msg("moved")
	m.dialog.Notify("Moved", name, prompt.SeverityInfo)
	return OutcomeDone, nil
}

// transfer renames src to dest, falling back to copy-then-delete.
func (m *Mover) transfer(src, dest string, kind ItemKind, mode Mode) error {
	renameErr := m.fs.Rename(src, dest)
	if renameErr == nil {
		return nil
	}
	logger.Debug().
		Err(renameErr).
		Bool("cross_device", isCrossDevice(renameErr)).
		Str("path", src).
		Msg("rename failed, copying instead")

	if kind == KindDir {
		if err := m.MergeCopyDir(src, dest, mode); err != nil {
			if errors.Is(err, ErrMergeAborted) {
				return fmt.Errorf("move %s: %w", src, err)
			}
			return fmt.Errorf("move %s: %w: %v", src, ErrTransferFailed, err)
		}
		m.DeleteDir(src)
		return nil
	}

	if err := copyFile(m.fs, src, dest); err != nil {
		return fmt.Errorf("move %s: %w: %v", src, ErrTransferFailed, err)
	}
	if err := m.fs.Remove(src); err != nil {
		logger.Warn().Err(err).Str("path", src).Msg("remove source after copy")
	}
	return nil
}

// MergeCopyDir copies the tree at src into dst, creating dst if needed.
//
// A file that already exists in dst is overwritten after confirmation or
// skipped when declined. A failed file copy asks whether to continue under
// ModeAsk; answering no returns ErrMergeAborted, which also aborts every
// enclosing merge. Under ModeConfirmAll failed copies are skipped.
func (m *Mover) MergeCopyDir(src, dst string, mode Mode) error {
	if exists, _ := afero.Exists(m.fs, dst); !exists {
		if err := m.fs.MkdirAll(dst, 0755); err != nil {
			m.dialog.Notify("Error", fmt.Sprintf("Cannot create folder:\n%s", dst), prompt.SeverityError)
			return fmt.Errorf("create %s: %w", dst, err)
		}
	}

	entries, err := afero.ReadDir(m.fs, src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
			continue
		}

		s := filepath.Join(src, e.Name())
		d := filepath.Join(dst, e.Name())

		if exists, _ := afero.Exists(m.fs, d); exists {
			if mode == ModeAsk && !m.dialog.Confirm("File exists", fmt.Sprintf("Overwrite %s?", e.Name())) {
				continue
			}
			_ = m.fs.Remove(d)
		}

		if err := copyFile(m.fs, s, d); err != nil {
			logger.Warn().Err(err).Str("path", s).Msg("copy failed")
			if mode == ModeAsk && !m.dialog.Confirm("Copy error", fmt.Sprintf("Cannot copy %s, continue?", e.Name())) {
				return ErrMergeAborted
			}
		}
	}

	for _, name := range dirs {
		if err := m.MergeCopyDir(filepath.Join(src, name), filepath.Join(dst, name), mode); err != nil {
			return err
		}
	}
	return nil
}

// DeleteDir removes every file and subdirectory under path and then path
// itself. Failures inside the tree are ignored; the result only says
// whether path is gone afterwards.
func (m *Mover) DeleteDir(path string) bool {
	entries, err := afero.ReadDir(m.fs, path)
	if err == nil {
		for _, e := range entries {
			p := filepath.Join(path, e.Name())
			if e.IsDir() {
				m.DeleteDir(p)
				continue
			}
			_ = m.fs.Remove(p)
		}
		_ = m.fs.Remove(path)
	}

	exists, _ := afero.Exists(m.fs, path)
	return !exists
}

// DeleteFile removes a single file. A file that is already gone counts
// as deleted.
func (m *Mover) DeleteFile(path string) error {
	if err := m.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Delete removes path after the configuration gate and, under ModeAsk,
// an explicit confirmation.
func (m *Mover) Delete(path string, kind ItemKind, mode Mode) (Outcome, error) {
	if !m.allowDelete {
		m.dialog.Notify("Deletion Disabled", "Deleting is disabled in settings.", prompt.SeverityInfo)
		return OutcomeDisabled, ErrDeletionDisabled
	}

	name := filepath.Base(path)
	if mode == ModeAsk && !m.dialog.Confirm("Delete?", name) {
		return OutcomeSkipped, ErrDeleteDeclined
	}

	if kind == KindAuto {
		kind = KindFile
		if IsDir(m.fs, path) {
			kind = KindDir
		}
	}

	if kind == KindDir {
		if !m.DeleteDir(path) {
			m.dialog.Notify("Error deleting", name, prompt.SeverityError)
			return OutcomeFailed, fmt.Errorf("delete %s: %w", path, ErrTransferFailed)
		}
		logger.Info().Str("path", path).Msg("deleted folder")
		m.dialog.Notify("Deleted folder", name, prompt.SeverityInfo)
		return OutcomeDone, nil
	}

	if err := m.DeleteFile(path); err != nil {
		m.dialog.Notify("Error deleting", err.Error(), prompt.SeverityError)
		return OutcomeFailed, fmt.Errorf("delete %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("deleted file")
	m.dialog.Notify("Deleted file", name, prompt.SeverityInfo)
	return OutcomeDone, nil
}

// copyFile copies the contents and mode of src to dst, replacing dst.
func copyFile(fs afero.Fs, src, dst string) error {
	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	_ = fs.Chtimes(dst, info.ModTime(), info.ModTime())
	return nil
}
