package app

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/sadekstore/storefront/pkg/response"
)

// uploadsHandler serves stored images from root. Directory paths are 404s so
// the upload folder cannot be listed.
func uploadsHandler(root string) http.Handler {
	files := http.FileServer(filesOnly{http.Dir(root)})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			response.NotFound(w, "File not found")
			return
		}
		files.ServeHTTP(w, r)
	})
}

// filesOnly hides directories from http.FileServer.
type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}
