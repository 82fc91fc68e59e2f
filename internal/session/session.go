// Package session holds the interactive state shared between requests: which dataset is
// selected, which attributes are hidden from the association table, and the last
// regression run id.
package session

import (
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"

	"mvextras/domain/dataset"
)

// Session is safe for concurrent use.
type Session struct {
	mu          sync.RWMutex
	datasetName string
	fingerprint uint64
	hidden      map[string]bool
	lastRunID   int
}

// New returns an empty session.
func New() *Session {
	return &Session{hidden: make(map[string]bool)}
}

// Fingerprint hashes the ordered attribute names and raw types of a dataset.
func Fingerprint(ds *dataset.Dataset) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(ds.Name)
	for _, a := range ds.Attributes {
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(a.Name)
		_, _ = d.WriteString("\x01")
		_, _ = d.WriteString(a.Type)
	}
	return d.Sum64()
}

// SelectDataset makes ds the current dataset. Hidden attributes are cleared when the
// dataset or its schema changes; it reports whether that happened.
func (s *Session) SelectDataset(ds *dataset.Dataset) bool {
	fp := Fingerprint(ds)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.datasetName == ds.Name && s.fingerprint == fp {
		return false
	}
	s.datasetName = ds.Name
	s.fingerprint = fp
	s.hidden = make(map[string]bool)
	return true
}

// DatasetName returns the selected dataset name.
func (s *Session) DatasetName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.datasetName
}

// FingerprintHex returns the selected dataset's schema fingerprint.
func (s *Session) FingerprintHex() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return strconv.FormatUint(s.fingerprint, 16)
}

// SetHidden hides or shows an attribute in the association table.
func (s *Session) SetHidden(name string, hidden bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if hidden {
		s.hidden[name] = true
	} else {
		delete(s.hidden, name)
	}
}

// IsHidden reports whether the attribute is hidden.
func (s *Session) IsHidden(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hidden[name]
}

// Visible filters attrs to those not hidden, preserving order.
func (s *Session) Visible(attrs []dataset.Attribute) []dataset.Attribute {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]dataset.Attribute, 0, len(attrs))
	for _, a := range attrs {
		if !s.hidden[a.Name] {
			out = append(out, a)
		}
	}
	return out
}

// NextRunID returns max(last id seen by this session, persistedMax) + 1 and records it.
func (s *Session) NextRunID(persistedMax int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRunID = max(s.lastRunID, persistedMax) + 1
	return s.lastRunID
}
