// Package memory keeps profile pictures in process memory.
package memory

import (
	"context"
	"sync"

	"github.com/synchrony/student-management/internal/storage"
)

// PhotoStore is a map-backed storage.PhotoStore safe for concurrent use.
type PhotoStore struct {
	mu      sync.RWMutex
	objects map[string]storage.Photo
}

// New returns an empty store.
func New() *PhotoStore {
	return &PhotoStore{objects: make(map[string]storage.Photo)}
}

func (s *PhotoStore) Put(_ context.Context, key string, photo storage.Photo) error {
	if key == "" || len(photo.Data) == 0 {
		return storage.ErrInvalidArgument
	}
	data := make([]byte, len(photo.Data))
	copy(data, photo.Data)

	s.mu.Lock()
	s.objects[key] = storage.Photo{Data: data, ContentType: photo.ContentType}
	s.mu.Unlock()
	return nil
}

func (s *PhotoStore) Get(_ context.Context, key string) (*storage.Photo, error) {
	s.mu.RLock()
	photo, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &photo, nil
}

// Delete is idempotent: removing a missing key is not an error.
func (s *PhotoStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored objects.
func (s *PhotoStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

var _ storage.PhotoStore = (*PhotoStore)(nil)
