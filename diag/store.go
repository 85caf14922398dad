package diag

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Keys written by Store.Open and removed by Store.Close.
const (
	KeyTestID     = "testId"
	KeyTestClass  = "testClass"
	KeyTestMethod = "testMethod"
	KeyThreadID   = "threadId"
)

var contextKeys = []string{KeyTestID, KeyTestClass, KeyTestMethod, KeyThreadID}

// Store is a process-wide diagnostic context. Each executing unit (normally one suite
// runner) has its own set of entries, so units never see each other's correlation ids.
type Store struct {
	units map[string]map[string]string
	lock  sync.RWMutex
}

func NewStore() *Store {
	return &Store{units: make(map[string]map[string]string)}
}

// NewCorrelationID returns a short random identifier such as "TEST-1A2B3C4D".
func NewCorrelationID() string {
	return "TEST-" + strings.ToUpper(uuid.New().String()[:8])
}

// Open assigns a fresh correlation id to the unit and records the suite and test names.
// Opening again without closing overwrites the previous values.
func (s *Store) Open(unit, suiteName, testName string) string {
	id := NewCorrelationID()
	s.lock.Lock()
	entries := s.units[unit]
	if entries == nil {
		entries = make(map[string]string)
		s.units[unit] = entries
	}
	entries[KeyTestID] = id
	entries[KeyTestClass] = suiteName
	entries[KeyTestMethod] = testName
	entries[KeyThreadID] = unit
	s.lock.Unlock()
	return id
}

// Close removes the four entries written by Open. Other entries for the unit are kept.
func (s *Store) Close(unit string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	entries := s.units[unit]
	if entries == nil {
		return
	}
	for _, k := range contextKeys {
		delete(entries, k)
	}
	if len(entries) == 0 {
		delete(s.units, unit)
	}
}

// ClearUnit removes every entry of one unit, including ones added with Put.
func (s *Store) ClearUnit(unit string) {
	s.lock.Lock()
	delete(s.units, unit)
	s.lock.Unlock()
}

// ClearAll wipes every unit's entries.
func (s *Store) ClearAll() {
	s.lock.Lock()
	s.units = make(map[string]map[string]string)
	s.lock.Unlock()
}

func (s *Store) Put(unit, key, value string) {
	s.lock.Lock()
	entries := s.units[unit]
	if entries == nil {
		entries = make(map[string]string)
		s.units[unit] = entries
	}
	entries[key] = value
	s.lock.Unlock()
}

func (s *Store) Get(unit, key string) (string, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	v, ok := s.units[unit][key]
	return v, ok
}

// CorrelationID returns the unit's open correlation id, if any.
func (s *Store) CorrelationID(unit string) (string, bool) {
	return s.Get(unit, KeyTestID)
}

// Fields returns the unit's entries as zap fields, in key order.
func (s *Store) Fields(unit string) []zap.Field {
	s.lock.RLock()
	entries := s.units[unit]
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, zap.String(k, entries[k]))
	}
	s.lock.RUnlock()
	return fields
}
