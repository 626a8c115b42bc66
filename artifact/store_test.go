// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package artifact

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func newTestStore(t *testing.T, retention time.Duration) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), retention)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return s
}

// writeArtifact creates a file in the store directory and registers it.
func writeArtifact(t *testing.T, s *Store, content string) Artifact {
	t.Helper()
	filename := s.NewFilename("png")
	path, err := s.PathFor(filename)
	if err != nil {
		t.Fatalf("PathFor failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	a, err := s.Register(filename)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return a
}

func TestRegisterAndOpen(t *testing.T) {
	s := newTestStore(t, time.Hour)
	a := writeArtifact(t, s, "png-bytes")

	r, err := s.Open(a.Filename)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("content = %q", data)
	}
	if r.Artifact.Size != int64(len("png-bytes")) {
		t.Errorf("size = %d", r.Artifact.Size)
	}
}

func TestOpenUnknownArtifact(t *testing.T) {
	s := newTestStore(t, time.Hour)
	_, err := s.Open("diagram_nope.png")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *NotFoundError, got %T: %v", err, err)
	}
}

func TestPathForRejectsTraversal(t *testing.T) {
	s := newTestStore(t, time.Hour)
	for _, name := range []string{"", "../etc/passwd", "a/b.png", ".."} {
		if _, err := s.PathFor(name); err == nil {
			t.Errorf("PathFor(%q) should fail", name)
		}
	}
}

func TestSweepRemovesExpired(t *testing.T) {
	s := newTestStore(t, time.Minute)
	a := writeArtifact(t, s, "old")

	if removed := s.Sweep(time.Now()); removed != 0 {
		t.Errorf("fresh artifact swept: removed = %d", removed)
	}
	if removed := s.Sweep(time.Now().Add(2 * time.Minute)); removed != 1 {
		t.Errorf("expired artifact not swept: removed = %d", removed)
	}
	if _, err := os.Stat(a.Path); !os.IsNotExist(err) {
		t.Error("file still on disk after sweep")
	}
	if _, err := s.Open(a.Filename); err == nil {
		t.Error("swept artifact still resolvable")
	}
}

func TestSweepSkipsActiveReaders(t *testing.T) {
	s := newTestStore(t, time.Minute)
	a := writeArtifact(t, s, "in-use")

	r, err := s.Open(a.Filename)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if removed := s.Sweep(time.Now().Add(time.Hour)); removed != 0 {
		t.Fatalf("artifact with active reader was swept: removed = %d", removed)
	}

	data, err := io.ReadAll(r)
	if err != nil || string(data) != "in-use" {
		t.Fatalf("read after sweep failed: %v %q", err, data)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if removed := s.Sweep(time.Now().Add(time.Hour)); removed != 1 {
		t.Errorf("artifact not swept after reader finished: removed = %d", removed)
	}
}

func TestConcurrentReadersSurviveSweep(t *testing.T) {
	s := newTestStore(t, time.Millisecond)
	a := writeArtifact(t, s, "shared-bytes")

	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make(chan error, 2)

	for i := 0; i < 2; i++ {
		r, err := s.Open(a.Filename)
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			defer r.Close()
			data, err := io.ReadAll(r)
			if err != nil {
				errs <- err
				return
			}
			if string(data) != "shared-bytes" {
				errs <- errors.New("short read: " + string(data))
			}
		}()
	}

	// Retention is already exceeded; this sweep races both readers.
	close(start)
	s.Sweep(time.Now().Add(time.Hour))
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("reader failed: %v", err)
	}

	// Only after both readers finish may the artifact go.
	if removed := s.Sweep(time.Now().Add(time.Hour)); removed != 1 {
		t.Errorf("artifact not removed once readers finished: removed = %d", removed)
	}
}

func TestAdoptOrphans(t *testing.T) {
	dir := t.TempDir()
	orphan := filepath.Join(dir, "diagram_orphan.png")
	if err := os.WriteFile(orphan, []byte("leftover"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	s, err := NewStore(dir, time.Hour)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	r, err := s.Open("diagram_orphan.png")
	if err != nil {
		t.Fatalf("adopted orphan not resolvable: %v", err)
	}
	_ = r.Close()
}

func TestDrainAndStop(t *testing.T) {
	s := newTestStore(t, time.Millisecond)
	a := writeArtifact(t, s, "bytes")

	r, err := s.Open(a.Filename)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	done := make(chan int)
	go func() {
		done <- s.DrainAndStop(time.Second)
	}()

	// New reads are refused once draining begins.
	time.Sleep(20 * time.Millisecond)
	if _, err := s.Open(a.Filename); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("Open during drain = %v, want ErrStoreClosed", err)
	}

	_, _ = io.ReadAll(r)
	_ = r.Close()

	if removed := <-done; removed != 1 {
		t.Errorf("final sweep removed %d, want 1", removed)
	}
}

func TestSweepObserver(t *testing.T) {
	s := newTestStore(t, time.Millisecond)
	writeArtifact(t, s, "bytes")

	var observed int
	s.SweepObserver = func(removed int) { observed += removed }
	s.Sweep(time.Now().Add(time.Minute))
	if observed != 1 {
		t.Errorf("observer saw %d removals, want 1", observed)
	}
}
