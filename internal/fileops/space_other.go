//go:build !unix

package fileops

// FreeSpace is not available on this platform.
func FreeSpace(path string) (uint64, bool) {
	return 0, false
}
