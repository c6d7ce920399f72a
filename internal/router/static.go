package router

import (
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

// imageFS serves the image directory without listings and hides dot-files,
// which include uploads still being written.
type imageFS struct {
	http.FileSystem
}

func newImageFS(dir string) imageFS {
	return imageFS{gin.Dir(dir, false)}
}

func (f imageFS) Open(name string) (http.File, error) {
	for _, part := range strings.Split(path.Clean("/"+name), "/") {
		if strings.HasPrefix(part, ".") {
			return nil, fs.ErrNotExist
		}
	}
	return f.FileSystem.Open(name)
}
