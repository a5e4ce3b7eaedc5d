// assets/embed.go
//
// Embedded default dictionary library.
// Layout: library/<language>/<length>.txt and
// library/<language>/<length>_clean_popular.txt, one word per line.
// Used whenever WORDS_DIR is not configured.

package assets

import (
	"embed"
	"io/fs"
)

//go:embed library
var files embed.FS

// Library returns the embedded dictionary tree rooted at "library".
func Library() fs.FS {
	sub, err := fs.Sub(files, "library")
	if err != nil {
		// "library" is embedded above; Sub only fails on an invalid path.
		panic(err)
	}
	return sub
}
