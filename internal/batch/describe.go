package batch

import (
	"fmt"
	"path/filepath"

	"github.com/litescript/ls-media-shuttle/internal/location"
)

// Describe renders e for the batch list. Moves are labelled with the tier
// they go to, deletes with the tier they are on:
//
//	Move to External: Movies – Film (2020)
//	Delete from Internal: Show – S01E01.mkv
func Describe(r *location.Resolver, e Entry) string {
	parent := filepath.Base(filepath.Dir(e.Path))
	name := filepath.Base(e.Path)
	if e.Action == ActionMove {
		return fmt.Sprintf("Move to %s: %s – %s", r.DestinationTier(e.Path), parent, name)
	}
	return fmt.Sprintf("Delete from %s: %s – %s", r.Tier(e.Path), parent, name)
}
