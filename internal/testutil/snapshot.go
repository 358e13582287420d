package testutil

import (
	"context"
	"errors"
	"sync"

	"ft-go/internal/ft"
)

// ErrInjected is the error returned by FailingStore.
var ErrInjected = errors.New("injected store failure")

// RecordingStore is an in-memory SnapshotStore that counts writes and can be
// switched to fail reads or writes.
type RecordingStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	puts    int
	failGet bool
	failPut bool
	closed  bool
}

var _ ft.SnapshotStore = (*RecordingStore)(nil)

func NewRecordingStore() *RecordingStore {
	return &RecordingStore{data: make(map[string][]byte)}
}

// FailingStore returns a store whose Get and Put both fail with ErrInjected.
func FailingStore() *RecordingStore {
	s := NewRecordingStore()
	s.failGet = true
	s.failPut = true
	return s
}

// SetFailPut makes subsequent Puts fail (or succeed again).
func (s *RecordingStore) SetFailPut(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPut = fail
}

// Seed stores data under key without counting it as a Put.
func (s *RecordingStore) Seed(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte{}, data...)
}

// Raw returns the stored value for key, or nil.
func (s *RecordingStore) Raw(key string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key]
}

// Puts returns how many successful Puts happened.
func (s *RecordingStore) Puts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}

func (s *RecordingStore) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *RecordingStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGet {
		return nil, ErrInjected
	}
	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte{}, v...), nil
}

func (s *RecordingStore) Put(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPut {
		return ErrInjected
	}
	s.data[key] = append([]byte{}, data...)
	s.puts++
	return nil
}

func (s *RecordingStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
