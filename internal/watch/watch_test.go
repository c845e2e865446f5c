package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDebouncer_CoalescesTriggers(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	defer d.Stop()

	var calls atomic.Int32
	var last atomic.Int32
	for i := 1; i <= 5; i++ {
		n := int32(i)
		d.Trigger(func() {
			calls.Add(1)
			last.Store(n)
		})
	}

	time.Sleep(150 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Errorf("callback ran %d times, want 1", got)
	}
	if got := last.Load(); got != 5 {
		t.Errorf("ran callback %d, want the latest (5)", got)
	}
}

func TestDebouncer_Stop(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Stop()
	d.Trigger(func() { calls.Add(1) })

	time.Sleep(80 * time.Millisecond)
	if calls.Load() != 0 {
		t.Error("no callback should run after Stop")
	}
}

func TestShouldProcessEvent(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "Stage.xml")

	single := &Watcher{target: target}
	multi := &Watcher{config: Config{Extensions: []string{".xml", ".JSON"}}}

	tests := []struct {
		name string
		w    *Watcher
		ev   fsnotify.Event
		want bool
	}{
		{"target write", single, fsnotify.Event{Name: target, Op: fsnotify.Write}, true},
		{"target create", single, fsnotify.Event{Name: target, Op: fsnotify.Create}, true},
		{"other file", single, fsnotify.Event{Name: filepath.Join(dir, "Other.xml"), Op: fsnotify.Write}, false},
		{"chmod", single, fsnotify.Event{Name: target, Op: fsnotify.Chmod}, false},
		{"remove", single, fsnotify.Event{Name: target, Op: fsnotify.Remove}, false},
		{"dir xml", multi, fsnotify.Event{Name: "a/Stage.xml", Op: fsnotify.Write}, true},
		{"dir json", multi, fsnotify.Event{Name: "a/Stage.json", Op: fsnotify.Write}, true},
		{"dir other ext", multi, fsnotify.Event{Name: "a/model.obj", Op: fsnotify.Write}, false},
		{"hidden", multi, fsnotify.Event{Name: "a/.Stage.xml", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.w.shouldProcessEvent(tt.ev); got != tt.want {
				t.Errorf("shouldProcessEvent(%v) = %v, want %v", tt.ev, got, tt.want)
			}
		})
	}
}

func TestWatch_RunsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Stage.xml")
	if err := os.WriteFile(path, []byte("<Root/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(Config{Path: path, Debounce: 20 * time.Millisecond}, quietLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 10)
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func(p string) error {
			changed <- p
			return nil
		})
	}()

	// give the watcher time to register
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("<Root><A/></Root>"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-changed:
		if filepath.Clean(got) != filepath.Clean(path) {
			t.Errorf("changed path = %q, want %q", got, path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change callback")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch() error = %v", err)
	}
}

func TestWatch_MissingPath(t *testing.T) {
	w, err := New(Config{Path: filepath.Join(t.TempDir(), "missing.xml")}, quietLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := w.Watch(context.Background(), func(string) error { return nil }); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestWatch_NewSubdirectory(t *testing.T) {
	dir := t.TempDir()

	w, err := New(Config{Path: dir, Debounce: 20 * time.Millisecond, Extensions: []string{".xml"}}, quietLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 10)
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func(p string) error {
			changed <- p
			return nil
		})
	}()

	time.Sleep(50 * time.Millisecond)
	sub := filepath.Join(dir, "world2")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	path := filepath.Join(sub, "Stage.xml")
	if err := os.WriteFile(path, []byte("<Root/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-changed:
		if filepath.Clean(got) != filepath.Clean(path) {
			t.Errorf("changed path = %q, want %q", got, path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change in new subdirectory")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch() error = %v", err)
	}
}

func TestIsNewDir(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	hidden := filepath.Join(dir, ".git")
	file := filepath.Join(dir, "Stage.xml")
	for _, d := range []string{sub, hidden} {
		if err := os.Mkdir(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	tree := &Watcher{}
	single := &Watcher{target: file}

	tests := []struct {
		name string
		w    *Watcher
		ev   fsnotify.Event
		want bool
	}{
		{"created dir", tree, fsnotify.Event{Name: sub, Op: fsnotify.Create}, true},
		{"written dir", tree, fsnotify.Event{Name: sub, Op: fsnotify.Write}, false},
		{"hidden dir", tree, fsnotify.Event{Name: hidden, Op: fsnotify.Create}, false},
		{"created file", tree, fsnotify.Event{Name: file, Op: fsnotify.Create}, false},
		{"single file mode", single, fsnotify.Event{Name: sub, Op: fsnotify.Create}, false},
		{"already gone", tree, fsnotify.Event{Name: filepath.Join(dir, "gone"), Op: fsnotify.Create}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.w.isNewDir(tt.ev); got != tt.want {
				t.Errorf("isNewDir(%v) = %v, want %v", tt.ev, got, tt.want)
			}
		})
	}
}
