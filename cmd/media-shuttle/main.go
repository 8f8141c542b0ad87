// Media Shuttle moves movie and TV folders between an internal library and
// its mirror on external storage, either right away or as a queued batch
// that survives restarts.
package main

import "github.com/litescript/ls-media-shuttle/internal/cli"

func main() {
	cli.Execute()
}
