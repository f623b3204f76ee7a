// Package imageset keeps the ordered list of source images waiting to be
// stitched.
//
// Items are identified by a UUID minted on insertion. Position is never used
// as a key: Remove and Reorder both address items by ID, so a client that
// reorders thumbnails can send back the new ID sequence without tracking
// indexes. Two candidates with the same file name and byte size are treated
// as the same source and only the first is kept.
//
// A Set is safe for concurrent use.
package imageset

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/ironsheep/image-stitch-mcp/internal/stitch"
)

// ErrBusy is returned by Begin while another stitch holds the set.
var ErrBusy = errors.New("a stitch is already running")

// Candidate is an image offered for insertion.
type Candidate struct {
	// Name is the display name, normally the file's base name.
	Name string

	// Size is the payload size in bytes.
	Size int64

	// Path locates the undecoded image.
	Path string
}

// Signature returns the (name, size) pair used for duplicate detection.
func (c Candidate) Signature() Signature {
	return Signature{Name: c.Name, Size: c.Size}
}

// Signature identifies a source for duplicate detection. It is policy, not
// identity: two items with different signatures are always both kept.
type Signature struct {
	Name string
	Size int64
}

// CandidateFromFile builds a Candidate from a file on disk.
func CandidateFromFile(path string) (Candidate, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return Candidate{}, fmt.Errorf("failed to stat file: %w", err)
	}
	if stat.IsDir() {
		return Candidate{}, fmt.Errorf("%s is a directory", path)
	}
	return Candidate{Name: filepath.Base(path), Size: stat.Size(), Path: path}, nil
}

// Item is a member of the set.
type Item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Size int64  `json:"size"`
	Path string `json:"path"`
}

// Signature returns the item's duplicate-detection key.
func (it Item) Signature() Signature {
	return Signature{Name: it.Name, Size: it.Size}
}

// Set is an ordered collection of Items keyed by ID.
type Set struct {
	mu      sync.Mutex
	order   []string
	items   map[string]Item
	running bool
	logger  *slog.Logger
}

// New returns an empty set. A nil logger falls back to the stitch package
// logger.
func New(logger *slog.Logger) *Set {
	return &Set{
		items:  make(map[string]Item),
		logger: logger,
	}
}

func (s *Set) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return stitch.Logger()
}

// Add appends each candidate whose signature is not already present and
// returns the accepted items in order. Rejected duplicates are logged and
// skipped.
func (s *Set) Add(candidates ...Candidate) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[Signature]bool, len(s.items)+len(candidates))
	for _, it := range s.items {
		seen[it.Signature()] = true
	}

	var added []Item
	for _, c := range candidates {
		sig := c.Signature()
		if seen[sig] {
			s.log().Warn("duplicate image rejected",
				slog.String("name", c.Name),
				slog.Int64("size", c.Size))
			continue
		}
		seen[sig] = true

		it := Item{ID: uuid.NewString(), Name: c.Name, Size: c.Size, Path: c.Path}
		s.items[it.ID] = it
		s.order = append(s.order, it.ID)
		added = append(added, it)
	}
	return added
}

// Remove deletes the item with id and reports whether it was present. Other
// items keep their relative order.
func (s *Set) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Reorder replaces the iteration order. ids must contain every current ID
// exactly once; otherwise the order is left unchanged and the error wraps
// stitch.ErrInvalidArgument.
func (s *Set) Reorder(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(ids) != len(s.items) {
		return fmt.Errorf("%w: reorder lists %d ids, set has %d",
			stitch.ErrInvalidArgument, len(ids), len(s.items))
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := s.items[id]; !ok {
			return fmt.Errorf("%w: unknown id %q", stitch.ErrInvalidArgument, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: id %q listed twice", stitch.ErrInvalidArgument, id)
		}
		seen[id] = true
	}

	s.order = append(s.order[:0:0], ids...)
	return nil
}

// Snapshot returns a copy of the items in stitch order.
func (s *Set) Snapshot() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Set) snapshotLocked() []Item {
	out := make([]Item, len(s.order))
	for i, id := range s.order {
		out[i] = s.items[id]
	}
	return out
}

// Get returns the item with id.
func (s *Set) Get(id string) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	return it, ok
}

// Len returns the number of items.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Clear removes every item.
func (s *Set) Clear() {
	s.mu.Lock()
	s.order = nil
	s.items = make(map[string]Item)
	s.mu.Unlock()
}

// Begin claims the set for one stitch and returns the snapshot to work on.
// It fails with ErrBusy until the previous claim is released with End. Edits
// made while a stitch runs do not affect the returned snapshot.
func (s *Set) Begin() ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil, ErrBusy
	}
	s.running = true
	return s.snapshotLocked(), nil
}

// End releases the claim taken by Begin.
func (s *Set) End() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}
