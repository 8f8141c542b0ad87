// Package location maps media paths onto their storage tier and onto the
// mirror path under the opposite tier.
package location

import "errors"

// ErrUnknownLocation indicates a path under none of the configured roots.
var ErrUnknownLocation = errors.New("path not in known locations")

// Tier is the storage side a root belongs to.
type Tier int

const (
	TierUnknown Tier = iota
	TierInternal
	TierExternal
)

// String returns a human-readable tier name.
func (t Tier) String() string {
	switch t {
	case TierInternal:
		return "Internal"
	case TierExternal:
		return "External"
	default:
		return "Unknown"
	}
}

// Opposite returns the other tier. Unknown stays Unknown.
func (t Tier) Opposite() Tier {
	switch t {
	case TierInternal:
		return TierExternal
	case TierExternal:
		return TierInternal
	default:
		return TierUnknown
	}
}

// Category separates movie roots from TV roots.
type Category int

const (
	CategoryMovies Category = iota
	CategoryTV
)

// String returns a human-readable category name.
func (c Category) String() string {
	if c == CategoryTV {
		return "TV Shows"
	}
	return "Movies"
}

// Roots holds the four configured root paths.
type Roots struct {
	InternalMovies string
	ExternalMovies string
	InternalTV     string
	ExternalTV     string
}

// Root is one configured root with its tier and category.
type Root struct {
	Path     string
	Tier     Tier
	Category Category
}

// Resolver answers tier and mirror questions for a fixed set of roots.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	roots []Root
}

// NewResolver creates a Resolver. Empty roots are ignored since an empty
// prefix would match every path.
func NewResolver(r Roots) *Resolver {
	all := []Root{
		{Path: r.InternalMovies, Tier: TierInternal, Category: CategoryMovies},
		{Path: r.ExternalMovies, Tier: TierExternal, Category: CategoryMovies},
		{Path: r.InternalTV, Tier: TierInternal, Category: CategoryTV},
		{Path: r.ExternalTV, Tier: TierExternal, Category: CategoryTV},
	}
	res := &Resolver{}
	for _, root := range all {
		if root.Path != "" {
			res.roots = append(res.roots, root)
		}
	}
	return res
}

// Roots returns the configured roots in internal-movies, external-movies,
// internal-tv, external-tv order.
func (r *Resolver) Roots() []Root {
	out := make([]Root, len(r.roots))
	copy(out, r.roots)
	return out
}

// Match returns the root whose path is the longest literal prefix of path.
// Matching is not segment-aware: a root "/mnt/usb" matches "/mnt/usb2/x".
func (r *Resolver) Match(path string) (Root, bool) {
	var best Root
	found := false
	for _, root := range r.roots {
		if len(path) < len(root.Path) || path[:len(root.Path)] != root.Path {
			continue
		}
		if !found || len(root.Path) > len(best.Path) {
			best = root
			found = true
		}
	}
	return best, found
}

// Tier returns the tier path currently lives on.
func (r *Resolver) Tier(path string) Tier {
	root, ok := r.Match(path)
	if !ok {
		return TierUnknown
	}
	return root.Tier
}

// DestinationTier returns the tier a move of path would land on.
func (r *Resolver) DestinationTier(path string) Tier {
	return r.Tier(path).Opposite()
}

// counterpart returns the opposite-tier root of the same category.
func (r *Resolver) counterpart(root Root) (Root, bool) {
	for _, other := range r.roots {
		if other.Category == root.Category && other.Tier == root.Tier.Opposite() {
			return other, true
		}
	}
	return Root{}, false
}

// Mirror swaps the matching root prefix of path for the opposite-tier
// root of the same category. It fails when no root matches or when the
// counterpart root is not configured.
func (r *Resolver) Mirror(path string) (string, error) {
	root, ok := r.Match(path)
	if !ok {
		return "", ErrUnknownLocation
	}
	other, ok := r.counterpart(root)
	if !ok {
		return "", ErrUnknownLocation
	}
	return other.Path + path[len(root.Path):], nil
}
