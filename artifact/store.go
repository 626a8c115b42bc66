// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"axonflow/diagrams/shared/logger"
)

// DefaultRetention is how long an artifact survives after creation before a
// sweep may remove it.
const DefaultRetention = 60 * time.Minute

// Artifact describes a rendered image file tracked by the Store.
type Artifact struct {
	Filename  string    // Servable identifier, unique within the store
	Path      string    // Absolute path under the store root
	CreatedAt time.Time // Registration time (file mtime for adopted orphans)
	Size      int64     // File size in bytes
}

// NotFoundError is returned when a filename is unknown or already reclaimed.
type NotFoundError struct {
	Filename string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("artifact %q not found", e.Filename)
}

// ErrStoreClosed is returned by Open once DrainAndStop has begun.
var ErrStoreClosed = fmt.Errorf("artifact store is shutting down")

// entry pairs an artifact with its active-reader count. An entry with a
// nonzero reader count is never sweep-eligible, regardless of age.
type entry struct {
	artifact Artifact
	readers  int
}

// Store owns the artifact directory. Artifacts are registered by the request
// path, read by any number of concurrent callers, and deleted only by sweeps -
// never by the request that created them.
//
// All state transitions happen under one mutex, which is what makes Register
// atomic with respect to Sweep.
type Store struct {
	dir       string
	retention time.Duration
	log       *logger.Logger

	// SweepObserver, when set, is called with the number of artifacts each
	// sweep removed. Set before any sweep runs; used for metrics.
	SweepObserver func(removed int)

	mu       sync.Mutex
	entries  map[string]*entry
	draining bool
	inFlight sync.WaitGroup
}

// NewStore creates (if needed) the artifact directory and adopts any files
// already present, using their mtime as creation time, so a restarted
// service still reclaims old artifacts.
func NewStore(dir string, retention time.Duration) (*Store, error) {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve artifact directory: %w", err)
	}

	s := &Store{
		dir:       abs,
		retention: retention,
		log:       logger.New("artifact-store"),
		entries:   make(map[string]*entry),
	}
	if err := s.adoptOrphans(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) adoptOrphans() error {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to scan artifact directory: %w", err)
	}
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		s.entries[de.Name()] = &entry{artifact: Artifact{
			Filename:  de.Name(),
			Path:      filepath.Join(s.dir, de.Name()),
			CreatedAt: info.ModTime(),
			Size:      info.Size(),
		}}
	}
	if len(s.entries) > 0 {
		s.log.Info("", "adopted existing artifacts", map[string]interface{}{"count": len(s.entries)})
	}
	return nil
}

// Dir returns the absolute artifact directory.
func (s *Store) Dir() string {
	return s.dir
}

// NewFilename generates a unique artifact filename.
func (s *Store) NewFilename(extension string) string {
	return fmt.Sprintf("diagram_%s.%s", uuid.NewString(), extension)
}

// PathFor returns the absolute path a filename will occupy. The filename must
// be a bare name; anything resembling path traversal is rejected.
func (s *Store) PathFor(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || strings.Contains(filename, "..") {
		return "", &NotFoundError{Filename: filename}
	}
	return filepath.Join(s.dir, filename), nil
}

// Register adds a freshly rendered file to the store and returns its
// descriptor. The file must already exist at the path PathFor gave out.
// Registration holds the store lock, so a concurrent sweep can never observe
// the file unregistered.
func (s *Store) Register(filename string) (Artifact, error) {
	path, err := s.PathFor(filename)
	if err != nil {
		return Artifact{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return Artifact{}, fmt.Errorf("artifact file missing at registration: %w", err)
	}

	a := Artifact{
		Filename:  filename,
		Path:      path,
		CreatedAt: time.Now(),
		Size:      info.Size(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[filename] = &entry{artifact: a}
	return a, nil
}

// Reader streams an artifact's bytes. Closing it releases the artifact's
// reader count; callers must always Close.
type Reader struct {
	Artifact Artifact

	file  *os.File
	store *Store
	once  sync.Once
}

func (r *Reader) Read(p []byte) (int, error) {
	return r.file.Read(p)
}

// Close closes the underlying file and decrements the reader count.
func (r *Reader) Close() error {
	var err error
	r.once.Do(func() {
		err = r.file.Close()
		r.store.release(r.Artifact.Filename)
	})
	return err
}

// Open resolves a filename to a streaming reader. The reader count is
// incremented before any bytes flow, so a sweep triggered mid-download cannot
// delete the file under the reader. Returns *NotFoundError for unknown or
// already reclaimed artifacts.
func (s *Store) Open(filename string) (*Reader, error) {
	s.mu.Lock()
	if s.draining {
		s.mu.Unlock()
		return nil, ErrStoreClosed
	}
	e, ok := s.entries[filename]
	if !ok {
		s.mu.Unlock()
		return nil, &NotFoundError{Filename: filename}
	}
	e.readers++
	s.inFlight.Add(1)
	a := e.artifact
	s.mu.Unlock()

	file, err := os.Open(a.Path)
	if err != nil {
		s.release(filename)
		return nil, &NotFoundError{Filename: filename}
	}
	return &Reader{Artifact: a, file: file, store: s}, nil
}

func (s *Store) release(filename string) {
	s.mu.Lock()
	if e, ok := s.entries[filename]; ok && e.readers > 0 {
		e.readers--
	}
	s.mu.Unlock()
	s.inFlight.Done()
}

// Sweep removes every artifact older than the retention threshold that has
// no active readers. Returns the number of artifacts removed.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for filename, e := range s.entries {
		if e.readers > 0 {
			continue
		}
		if now.Sub(e.artifact.CreatedAt) <= s.retention {
			continue
		}
		if err := os.Remove(e.artifact.Path); err != nil && !os.IsNotExist(err) {
			s.log.Warn("", "failed to remove expired artifact", map[string]interface{}{
				"filename": filename, "error": err.Error(),
			})
			continue
		}
		delete(s.entries, filename)
		removed++
	}

	if removed > 0 {
		s.log.Info("", "swept expired artifacts", map[string]interface{}{"removed": removed})
	}
	if s.SweepObserver != nil {
		s.SweepObserver(removed)
	}
	return removed
}

// Run executes sweeps on a fixed interval until the context is canceled.
// Intended to run as a single background goroutine.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(time.Now())
		}
	}
}

// DrainAndStop refuses new reads, waits for in-flight reads to complete (or
// the grace deadline to pass), and performs one final sweep. Returns the
// number of artifacts that final sweep removed.
func (s *Store) DrainAndStop(grace time.Duration) int {
	s.mu.Lock()
	s.draining = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.inFlight.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(grace):
		s.log.Warn("", "drain grace deadline reached with readers still active", nil)
	}

	return s.Sweep(time.Now())
}
