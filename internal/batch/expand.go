package batch

import (
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/litescript/ls-media-shuttle/internal/fileops"
	"github.com/litescript/ls-media-shuttle/internal/logger"
)

// OpKind is the concrete work one operation performs.
type OpKind int

const (
	OpMoveFile OpKind = iota
	OpDeleteFile
	OpDeleteDir
)

// String returns the operation kind name.
func (k OpKind) String() string {
	switch k {
	case OpMoveFile:
		return "move_file"
	case OpDeleteFile:
		return "delete_file"
	default:
		return "delete_dir"
	}
}

// Operation is a unit of work derived from a queued entry. It only lives
// for one run.
type Operation struct {
	Path string
	Kind OpKind
}

// Entry re-encodes the operation for checkpointing. A directory delete
// is stored as a plain delete; expansion turns it back into OpDeleteDir.
func (o Operation) Entry() Entry {
	if o.Kind == OpMoveFile {
		return Entry{Path: o.Path, Action: ActionMove}
	}
	return Entry{Path: o.Path, Action: ActionDelete}
}

// Plan is the expanded run: operations in execution order plus the
// directories to prune once they are done.
type Plan struct {
	Ops     []Operation
	Cleanup []string
}

// Entries returns the checkpoint form of ops.
func Entries(ops []Operation) []Entry {
	out := make([]Entry, 0, len(ops))
	for _, op := range ops {
		out = append(out, op.Entry())
	}
	return out
}

// Expand turns queued entries into operations.
//
// A move of a directory becomes one OpMoveFile per file inside it; an empty
// directory yields nothing. A delete of a directory becomes a single
// OpDeleteDir. Everything else maps one to one. Cleanup collects the moved
// directory, every directory that held a moved file, and the parent of
// every other entry.
func Expand(fs afero.Fs, entries []Entry) Plan {
	var plan Plan
	seen := make(map[string]bool)
	addCleanup := func(dir string) {
		if !seen[dir] {
			seen[dir] = true
			plan.Cleanup = append(plan.Cleanup, dir)
		}
	}

	for _, e := range entries {
		isDir := fileops.IsDir(fs, e.Path)

		switch {
		case e.Action == ActionMove && isDir:
			files := fileops.ListFiles(fs, e.Path)
			if len(files) == 0 {
				logger.Debug().Str("path", e.Path).Msg("nothing to move in directory")
				continue
			}
			addCleanup(e.Path)
			for _, f := range files {
				plan.Ops = append(plan.Ops, Operation{Path: f, Kind: OpMoveFile})
				addCleanup(filepath.Dir(f))
			}

		case e.Action == ActionDelete && isDir:
			plan.Ops = append(plan.Ops, Operation{Path: e.Path, Kind: OpDeleteDir})
			addCleanup(filepath.Dir(e.Path))

		case e.Action == ActionMove:
			plan.Ops = append(plan.Ops, Operation{Path: e.Path, Kind: OpMoveFile})
			addCleanup(filepath.Dir(e.Path))

		case e.Action == ActionDelete:
			plan.Ops = append(plan.Ops, Operation{Path: e.Path, Kind: OpDeleteFile})
			addCleanup(filepath.Dir(e.Path))

		default:
			logger.Warn().Str("path", e.Path).Str("action", string(e.Action)).Msg("dropping entry with unknown action")
		}
	}

	// deepest first so children go before their parents
	sort.SliceStable(plan.Cleanup, func(i, j int) bool {
		return len(plan.Cleanup[i]) > len(plan.Cleanup[j])
	})
	return plan
}
