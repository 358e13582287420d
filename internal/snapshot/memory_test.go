package snapshot

import (
	"context"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	data, err := s.Get(ctx, "flights")
	if err != nil || data != nil {
		t.Fatalf("Get() on empty store = %q, %v; want nil, nil", data, err)
	}

	payload := []byte(`[{"id":"1"}]`)
	if err := s.Put(ctx, "flights", payload); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	payload[0] = 'X'

	data, err = s.Get(ctx, "flights")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(data) != `[{"id":"1"}]` {
		t.Errorf("Get() = %q, stored value aliased the caller's slice", data)
	}

	data[0] = 'Y'
	again, _ := s.Get(ctx, "flights")
	if string(again) != `[{"id":"1"}]` {
		t.Errorf("Get() = %q, returned value aliased the stored slice", again)
	}

	if err := s.Put(ctx, "empty", nil); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if data, _ := s.Get(ctx, "empty"); data == nil {
		t.Error("Get() = nil for an empty stored value")
	}
}
