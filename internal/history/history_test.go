package history

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"go.uber.org/zap"
)

const testKey = "weather:search-history"

// memBlob is a test blob with injectable failures.
type memBlob struct {
	data   map[string][]byte
	getErr error
	setErr error
}

func newMemBlob() *memBlob {
	return &memBlob{data: make(map[string][]byte)}
}

func (b *memBlob) Get(_ context.Context, key string) ([]byte, error) {
	if b.getErr != nil {
		return nil, b.getErr
	}
	return b.data[key], nil
}

func (b *memBlob) Set(_ context.Context, key string, value []byte) error {
	if b.setErr != nil {
		return b.setErr
	}
	b.data[key] = value
	return nil
}

func (b *memBlob) Close() error { return nil }

func newTestStore(blob Blob, limit int) *Store {
	return New(blob, testKey, limit, zap.NewNop().Sugar())
}

func mustAdd(t *testing.T, s *Store, name string) []string {
	t.Helper()
	names, err := s.Add(context.Background(), name)
	if err != nil {
		t.Fatalf("Add(%q) failed: %v", name, err)
	}
	return names
}

func TestAddOrdersMostRecentFirst(t *testing.T) {
	s := newTestStore(newMemBlob(), 0)

	mustAdd(t, s, "Paris")
	mustAdd(t, s, "Lagos")
	names := mustAdd(t, s, "Quito")

	want := []string{"Quito", "Lagos", "Paris"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
}

// TestAddDeduplicatesCaseInsensitive verifies repeated adds keep one entry,
// stored with the most recently used casing.
func TestAddDeduplicatesCaseInsensitive(t *testing.T) {
	s := newTestStore(newMemBlob(), 0)

	mustAdd(t, s, "Paris")
	names := mustAdd(t, s, "Paris")
	if !reflect.DeepEqual(names, []string{"Paris"}) {
		t.Fatalf("expected a single entry, got %v", names)
	}

	names = mustAdd(t, s, "PARIS")
	if !reflect.DeepEqual(names, []string{"PARIS"}) {
		t.Fatalf("expected the newest casing to win, got %v", names)
	}

	mustAdd(t, s, "London")
	names = mustAdd(t, s, "paris")
	want := []string{"paris", "London"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
}

func TestAddTrimsName(t *testing.T) {
	s := newTestStore(newMemBlob(), 0)

	names := mustAdd(t, s, "  Oslo  ")
	if !reflect.DeepEqual(names, []string{"Oslo"}) {
		t.Fatalf("expected trimmed entry, got %v", names)
	}
}

// TestAddEnforcesLimit verifies the default bound: eleven distinct adds keep
// the ten most recent, most recent first.
func TestAddEnforcesLimit(t *testing.T) {
	s := newTestStore(newMemBlob(), 0)

	var names []string
	for i := 0; i <= 10; i++ {
		names = mustAdd(t, s, fmt.Sprintf("city-%d", i))
	}

	if len(names) != DefaultLimit {
		t.Fatalf("expected %d entries, got %d", DefaultLimit, len(names))
	}
	if names[0] != "city-10" {
		t.Fatalf("expected the newest entry first, got %q", names[0])
	}
	if names[len(names)-1] != "city-1" {
		t.Fatalf("expected the oldest surviving entry to be city-1, got %q", names[len(names)-1])
	}
	for _, n := range names {
		if n == "city-0" {
			t.Fatal("expected city-0 to have been evicted")
		}
	}
}

func TestRemove(t *testing.T) {
	s := newTestStore(newMemBlob(), 0)

	mustAdd(t, s, "Paris")
	mustAdd(t, s, "Lagos")

	names, err := s.Remove(context.Background(), "PARIS")
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"Lagos"}) {
		t.Fatalf("expected %v, got %v", []string{"Lagos"}, names)
	}

	// Removing a name that was never added is a no-op.
	names, err = s.Remove(context.Background(), "Atlantis")
	if err != nil {
		t.Fatalf("Remove of absent name failed: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"Lagos"}) {
		t.Fatalf("expected %v, got %v", []string{"Lagos"}, names)
	}
}

func TestListEmpty(t *testing.T) {
	s := newTestStore(newMemBlob(), 0)

	names, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected empty history, got %v", names)
	}
}

// TestMalformedBlobResets verifies unreadable persisted state behaves as an
// empty history instead of failing every call.
func TestMalformedBlobResets(t *testing.T) {
	blob := newMemBlob()
	blob.data[testKey] = []byte(`{not json`)
	s := newTestStore(blob, 0)

	names, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected empty history, got %v", names)
	}

	names = mustAdd(t, s, "Paris")
	if !reflect.DeepEqual(names, []string{"Paris"}) {
		t.Fatalf("expected a fresh list, got %v", names)
	}
}

// TestBlobFailurePropagates verifies transport failures, unlike malformed
// state, are surfaced to the caller.
func TestBlobFailurePropagates(t *testing.T) {
	blob := newMemBlob()
	blob.getErr = errors.New("connection reset")
	s := newTestStore(blob, 0)

	if _, err := s.Add(context.Background(), "Paris"); err == nil {
		t.Fatal("expected Add to fail when the blob store is down")
	}
	if _, err := s.List(context.Background()); err == nil {
		t.Fatal("expected List to fail when the blob store is down")
	}

	blob.getErr = nil
	blob.setErr = errors.New("connection reset")
	if _, err := s.Add(context.Background(), "Paris"); err == nil {
		t.Fatal("expected Add to fail when persisting fails")
	}
}

func TestCustomLimit(t *testing.T) {
	s := newTestStore(newMemBlob(), 2)

	mustAdd(t, s, "Paris")
	mustAdd(t, s, "Lagos")
	names := mustAdd(t, s, "Quito")

	want := []string{"Quito", "Lagos"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
}
