package logging

import (
	"context"
	"path/filepath"
	"testing"
)

func TestRotatingJSONLStoreAppendQuery(t *testing.T) {
	store, err := NewRotatingJSONLStore(filepath.Join(t.TempDir(), "runs.log"), 1, 2, 1)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		if err := store.Append(ctx, testRecord("r1", "a")); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	out, err := store.Query(ctx, RunQuery{RunID: "r1"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 10 {
		t.Fatalf("expected 10 records, got %d", len(out))
	}
}
