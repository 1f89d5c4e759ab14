package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// LocalPrefix is the URL path the local driver serves files under.
const LocalPrefix = "/uploads/"

type Local struct {
	root    string
	folder  string
	baseURL string
}

func NewLocal(root, folder, baseURL string) (*Local, error) {
	if err := os.MkdirAll(filepath.Join(root, folder), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{root: root, folder: folder, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (l *Local) Upload(ctx context.Context, file File) (Stored, error) {
	if err := validate(file); err != nil {
		return Stored{}, err
	}
	if err := ctx.Err(); err != nil {
		return Stored{}, err
	}
	key := objectKey(l.folder, file.Name)
	dst, err := os.Create(filepath.Join(l.root, filepath.FromSlash(key)))
	if err != nil {
		return Stored{}, err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file.Body); err != nil {
		return Stored{}, err
	}
	return Stored{Name: file.Name, URL: l.baseURL + LocalPrefix + key}, nil
}

// Handler serves previously uploaded files under LocalPrefix.
func (l *Local) Handler() http.Handler {
	return http.StripPrefix(LocalPrefix, http.FileServer(http.Dir(l.root)))
}
