package attachment

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rezonia/uae-einvoice/internal/model"
)

var _ Store = (*FileStore)(nil)

// FileStore keeps attachments under root/<doctype>/<record>/<file name>.
// Attachment ids are the slash-separated path relative to root.
type FileStore struct {
	root    string
	baseURL string
}

// NewFileStore creates the root directory if needed. baseURL prefixes the
// file URLs handed back to callers.
func NewFileStore(root, baseURL string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create attachment dir: %w", err)
	}
	return &FileStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *FileStore) List(_ context.Context, doctype, docName, fileName string) ([]*Attachment, error) {
	id, err := s.id(doctype, docName, fileName)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return []*Attachment{}, nil
	}
	if err != nil {
		return nil, err
	}
	return []*Attachment{s.describe(id, doctype, docName, fileName, int(info.Size()), info)}, nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	err := os.Remove(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return model.NewNotFoundError("attachment", "attachment "+id+" not found")
	}
	return err
}

func (s *FileStore) Create(_ context.Context, a *Attachment) (*Attachment, error) {
	id, err := s.id(a.AttachedToDoctype, a.AttachedToName, a.FileName)
	if err != nil {
		return nil, err
	}
	full := s.path(id)
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return nil, err
	}

	mode := os.FileMode(0o644)
	if a.IsPrivate {
		mode = 0o600
	}
	// O_EXCL: callers delete the old file first
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return nil, err
	}
	if _, err := f.Write(a.Content); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	info, err := os.Stat(full)
	if err != nil {
		return nil, err
	}
	stored := s.describe(id, a.AttachedToDoctype, a.AttachedToName, a.FileName, len(a.Content), info)
	stored.IsPrivate = a.IsPrivate
	stored.Content = a.Content
	return stored, nil
}

// ReadFile returns the content stored under id
func (s *FileStore) ReadFile(id string) ([]byte, error) {
	return os.ReadFile(s.path(id))
}

func (s *FileStore) describe(id, doctype, docName, fileName string, size int, info fs.FileInfo) *Attachment {
	return &Attachment{
		ID:                id,
		FileName:          fileName,
		FileURL:           s.baseURL + "/" + escapePath(id),
		AttachedToDoctype: doctype,
		AttachedToName:    docName,
		IsPrivate:         info.Mode().Perm()&0o004 == 0,
		Size:              size,
		Created:           info.ModTime(),
	}
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.root, filepath.FromSlash(id))
}

func (s *FileStore) id(doctype, docName, fileName string) (string, error) {
	for _, part := range []string{doctype, docName, fileName} {
		if part == "" || part == "." || part == ".." || strings.ContainsAny(part, `/\`) {
			return "", model.NewMalformedInputError("attachment", part, "not usable as a path segment")
		}
	}
	return path.Join(strings.ReplaceAll(strings.ToLower(doctype), " ", "_"), docName, fileName), nil
}

func escapePath(id string) string {
	parts := strings.Split(id, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
