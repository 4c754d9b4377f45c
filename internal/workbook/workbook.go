// Package workbook turns a rules workbook (.xlsx) into typed lookup tables.
//
// Missing sheets, missing columns and missing rows are never errors: they
// produce empty values. Only bytes that are not a workbook at all fail.
package workbook

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/thomaskoefod/cosmicgen/internal/logging"
)

var (
	ErrNotWorkbook = errors.New("not an xlsx workbook")
)

// Parse reads workbook bytes into a Tables set.
func Parse(b []byte) (*Tables, error) {
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotWorkbook, err)
	}
	defer f.Close()

	names := f.GetSheetList()
	sheets := make(map[string]*sheet, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %s: %w", name, err)
		}
		sheets[name] = newSheet(name, rows)
	}

	return build(names, sheets), nil
}

// Loader parses workbooks and memoizes the most recently parsed content.
type Loader struct {
	logger *zap.Logger

	mu     sync.Mutex
	sum    [sha256.Size]byte
	cached *Tables
}

func NewLoader(logger *zap.Logger) *Loader {
	return &Loader{logger: logging.OrNop(logger)}
}

// Load parses b, returning the cached tables when b matches the last bytes parsed.
func (l *Loader) Load(b []byte) (*Tables, error) {
	sum := sha256.Sum256(b)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cached != nil && l.sum == sum {
		l.logger.Debug("workbook cache hit", zap.String("sha256", fmt.Sprintf("%x", sum[:8])))
		return l.cached, nil
	}

	t, err := Parse(b)
	if err != nil {
		return nil, err
	}
	l.sum, l.cached = sum, t

	for _, name := range []string{SheetData, SheetAudit, SheetElementItems, SheetHouseZones,
		SheetRelations, SheetPreferences, SheetShapes, SheetActivityGuide} {
		if !containsSheet(t.sheets, name) {
			l.logger.Debug("sheet missing, using empty table", zap.String("sheet", name))
		}
	}
	l.logger.Info("workbook parsed",
		zap.Int("sheets", len(t.sheets)),
		zap.Int("signs", len(t.signs)),
		zap.Int("items", len(t.items)),
		zap.Int("activities", len(t.activities)),
	)
	return t, nil
}

// LoadFile reads and parses the workbook at path.
func (l *Loader) LoadFile(path string) (*Tables, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workbook: %w", err)
	}
	return l.Load(b)
}

func containsSheet(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// Store holds the active table set. Replacing the data source swaps the whole
// set at once; readers never see a mix of two workbooks.
type Store struct {
	active atomic.Pointer[snapshot]
}

type snapshot struct {
	tables *Tables
	source string
}

// NewStore returns a store serving t, or an empty set when t is nil.
func NewStore(t *Tables, source string) *Store {
	s := &Store{}
	s.Replace(t, source)
	return s
}

// Tables returns the active table set.
func (s *Store) Tables() *Tables {
	return s.active.Load().tables
}

// Source names where the active tables came from.
func (s *Store) Source() string {
	return s.active.Load().source
}

// Replace installs t as the active table set.
func (s *Store) Replace(t *Tables, source string) {
	if t == nil {
		t = Empty()
	}
	s.active.Store(&snapshot{tables: t, source: source})
}
