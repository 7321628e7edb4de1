package attachment

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rezonia/uae-einvoice/internal/model"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps attachments in memory. Unlike FileStore it allows
// several attachments with the same name on one record.
type MemoryStore struct {
	mu    sync.RWMutex
	seq   int
	items []*Attachment
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) List(_ context.Context, doctype, docName, fileName string) ([]*Attachment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Attachment, 0)
	for _, a := range s.items {
		if a.AttachedToDoctype == doctype && a.AttachedToName == docName && a.FileName == fileName {
			result = append(result, a)
		}
	}
	return result, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, a := range s.items {
		if a.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return model.NewNotFoundError("attachment", "attachment "+id+" not found")
}

func (s *MemoryStore) Create(_ context.Context, a *Attachment) (*Attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	stored := *a
	stored.ID = "file-" + strconv.Itoa(s.seq)
	stored.FileURL = "/private/files/" + a.FileName
	stored.Size = len(a.Content)
	stored.Created = s.now()
	s.items = append(s.items, &stored)
	return &stored, nil
}

// All returns every stored attachment in creation order
func (s *MemoryStore) All() []*Attachment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Attachment, len(s.items))
	copy(out, s.items)
	return out
}
