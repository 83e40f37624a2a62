package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_FiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "players.csv")
	if err := os.WriteFile(path, []byte("initial"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	fired := make(chan struct{}, 8)
	w := NewWatcher(path, func() { fired <- struct{}{} }, WithDebounce(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// The watch may not be registered yet when the first write lands, so
	// keep writing until the callback arrives.
	deadline := time.After(3 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-fired:
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("run returned error: %v", err)
			}
			return
		case <-deadline:
			t.Fatal("watcher never fired")
		case <-tick.C:
			if err := os.WriteFile(path, []byte(time.Now().String()), 0o644); err != nil {
				t.Fatalf("rewrite file: %v", err)
			}
		}
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "players.csv")
	other := filepath.Join(dir, "unrelated.txt")
	if err := os.WriteFile(path, []byte("initial"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	fired := make(chan struct{}, 8)
	w := NewWatcher(path, func() { fired <- struct{}{} }, WithDebounce(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	// Give the watch time to register, then touch only the other file.
	time.Sleep(200 * time.Millisecond)
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(other, []byte(time.Now().String()), 0o644); err != nil {
			t.Fatalf("write other file: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case <-fired:
		t.Fatal("watcher fired for an unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}
