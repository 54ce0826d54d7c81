package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"pet-tracker/internal/ports/blob"
)

var (
	ErrInvalidRef = errors.New("blob ref outside store")
)

// Store guarda blobs como archivos bajo Root.
// Las URLs devueltas son BaseURL + "/" + path relativo; el router sirve
// Root bajo /blobs/ con Handler().
type Store struct {
	root    string
	baseURL string
}

func New(root, baseURL string) (*Store, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("blob root dir required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve blob root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &Store{
		root:    abs,
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}, nil
}

func (s *Store) Upload(ctx context.Context, p string, obj blob.Object) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rel, err := cleanRel(p)
	if err != nil {
		return "", err
	}
	if ext := extensionFor(obj.ContentType); ext != "" && path.Ext(rel) == "" {
		rel += ext
	}

	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create blob dir: %w", err)
	}

	// Escribimos a tmp + rename para no dejar archivos a medias.
	tmp := full + ".tmp"
	if err := os.WriteFile(tmp, obj.Data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("write blob: %w", err)
	}
	if err := os.Rename(tmp, full); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("commit blob: %w", err)
	}

	return s.baseURL + "/" + rel, nil
}

func (s *Store) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ref = strings.TrimSpace(ref)
	if s.baseURL != "" {
		if !strings.HasPrefix(ref, s.baseURL+"/") {
			return ErrInvalidRef
		}
		ref = strings.TrimPrefix(ref, s.baseURL+"/")
	}

	rel, err := cleanRel(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel))); err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

// Handler sirve los archivos guardados (montar con http.StripPrefix).
// Los directorios dan 404: no se listan usuarios ni nombres de fotos.
func (s *Store) Handler() http.Handler {
	return http.FileServer(filesOnly{http.Dir(s.root)})
}

// filesOnly rechaza cualquier path que sea un directorio.
type filesOnly struct {
	root http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.root.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}

// cleanRel normaliza el path y rechaza cualquier cosa que escape de root.
func cleanRel(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", errors.New("blob path required")
	}
	rel := strings.TrimPrefix(path.Clean("/"+p), "/")
	if rel == "" || rel == "." || strings.Contains(p, "..") {
		return "", ErrInvalidRef
	}
	return rel, nil
}

func extensionFor(contentType string) string {
	if strings.TrimSpace(contentType) == "" {
		return ""
	}
	exts, err := mime.ExtensionsByType(contentType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}

var _ blob.Store = (*Store)(nil)
