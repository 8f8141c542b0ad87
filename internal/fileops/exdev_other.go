//go:build !unix

package fileops

func isCrossDevice(err error) bool {
	return false
}
