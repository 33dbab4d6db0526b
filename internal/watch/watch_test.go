package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcherReportsMatchingWrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "content"), 0o755))

	var mu sync.Mutex
	var changed []string
	got := make(chan struct{}, 8)
	w, err := New(dir, func(rel string) error {
		mu.Lock()
		changed = append(changed, rel)
		mu.Unlock()
		got <- struct{}{}
		return nil
	}, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "content", "site.yaml"), []byte("brand: {}"), 0o600))

	select {
	case <-got:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	require.Contains(t, changed, "content/site.yaml")
	require.NotContains(t, changed, "notes.txt")
}
