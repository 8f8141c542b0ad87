package tui

import (
	"fmt"

	"github.com/litescript/ls-media-shuttle/internal/fileops"
)

// freeLabel renders the free space on the filesystem holding path, or ""
// when it cannot be determined.
func freeLabel(path string) string {
	n, ok := fileops.FreeSpace(path)
	if !ok {
		return ""
	}
	return fmt.Sprintf("(%s free)", formatSize(n))
}

// formatSize formats bytes to human readable size
func formatSize(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// truncate cuts s to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
