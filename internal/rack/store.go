package rack

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// auditCap bounds the in-memory audit history.
const auditCap = 256

// AuditKind classifies an audit record.
type AuditKind string

const (
	AuditStore    AuditKind = "store"
	AuditRetrieve AuditKind = "retrieve"
)

// AuditRecord captures one successful store or retrieve mutation.
type AuditRecord struct {
	Kind      AuditKind
	Position  int
	ProductID string
	At        time.Time
}

// Statistics is a computed occupancy view of the whole rack.
type Statistics struct {
	Total            int
	Occupied         int
	Empty            int
	OccupancyPercent float64
	UniqueProducts   int
	Layout           string
}

// Store is the single source of truth for rack occupancy. All 35 positions
// are created once at construction and live for the process lifetime; only
// their mutable fields change, and only through the methods below.
//
// Logical state (State/ProductID/StoredAt) is mutated by the executor during
// task execution; the shadow fields are written by the supervisor poll loop.
// Both run on separate goroutines, hence the mutex.
type Store struct {
	mu        sync.Mutex
	layout    Layout
	positions []Position
	audit     []AuditRecord
	now       func() time.Time
}

// NewStore builds a store with all positions empty.
func NewStore(layout Layout) (*Store, error) {
	if layout.Positions <= 0 || layout.Rows <= 0 || layout.Columns <= 0 {
		return nil, fmt.Errorf("invalid rack layout %+v", layout)
	}
	if layout.Rows*layout.Columns < layout.Positions {
		return nil, fmt.Errorf("rack layout %dx%d cannot hold %d positions",
			layout.Rows, layout.Columns, layout.Positions)
	}

	positions := make([]Position, layout.Positions)
	for i := range positions {
		id := i + 1
		row, column := layout.Location(id)
		positions[i] = Position{ID: id, Row: row, Column: column, State: StateEmpty}
	}

	return &Store{
		layout:    layout,
		positions: positions,
		now:       time.Now,
	}, nil
}

// Layout returns the rack layout.
func (s *Store) Layout() Layout {
	return s.layout
}

// Get returns the current record for a position id.
func (s *Store) Get(id int) (Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.valid(id) {
		return Position{}, fmt.Errorf("position %d: %w", id, ErrUnknownPosition)
	}
	return s.positions[id-1], nil
}

// FirstEmpty returns the empty position with the lowest id. The ascending
// scan keeps target resolution deterministic.
func (s *Store) FirstEmpty() (Position, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.positions {
		if p.State == StateEmpty {
			return p, true
		}
	}
	return Position{}, false
}

// FindByProduct returns all positions occupied with the given product,
// ascending by id.
func (s *Store) FindByProduct(productID string) []Position {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found []Position
	for _, p := range s.positions {
		if p.State == StateOccupied && p.ProductID == productID {
			found = append(found, p)
		}
	}
	return found
}

// Store places a product into an empty position and records the mutation.
func (s *Store) Store(id int, productID string) error {
	if strings.TrimSpace(productID) == "" {
		return ErrEmptyProductID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.valid(id) {
		return fmt.Errorf("position %d: %w", id, ErrUnknownPosition)
	}
	p := &s.positions[id-1]
	if p.State != StateEmpty {
		return fmt.Errorf("position %d: %w", id, ErrPositionOccupied)
	}

	now := s.now()
	p.State = StateOccupied
	p.ProductID = productID
	p.StoredAt = now
	s.appendAudit(AuditRecord{Kind: AuditStore, Position: id, ProductID: productID, At: now})
	return nil
}

// Retrieve removes the product from an occupied position and returns it.
func (s *Store) Retrieve(id int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.valid(id) {
		return "", fmt.Errorf("position %d: %w", id, ErrUnknownPosition)
	}
	p := &s.positions[id-1]
	if p.State != StateOccupied {
		return "", fmt.Errorf("position %d: %w", id, ErrPositionEmpty)
	}

	productID := p.ProductID
	p.State = StateEmpty
	p.ProductID = ""
	p.StoredAt = time.Time{}
	s.appendAudit(AuditRecord{Kind: AuditRetrieve, Position: id, ProductID: productID, At: s.now()})
	return productID, nil
}

// SyncShadow updates the observed LED/button values from the most recent PLC
// poll. Poll data may be stale or partial, so unknown ids are ignored.
func (s *Store) SyncShadow(id int, led, button *bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.valid(id) {
		return
	}
	p := &s.positions[id-1]
	if led != nil {
		p.LEDShadow = *led
	}
	if button != nil {
		p.ButtonShadow = *button
	}
}

// Snapshot returns a copy of every position, ascending by id.
func (s *Store) Snapshot() []Position {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]Position, len(s.positions))
	copy(cp, s.positions)
	return cp
}

// Statistics computes the occupancy summary. No side effects.
func (s *Store) Statistics() Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Statistics{
		Total:  len(s.positions),
		Layout: fmt.Sprintf("%dx%d", s.layout.Rows, s.layout.Columns),
	}
	products := make(map[string]struct{})
	for _, p := range s.positions {
		if p.State == StateOccupied {
			stats.Occupied++
			products[p.ProductID] = struct{}{}
		}
	}
	stats.Empty = stats.Total - stats.Occupied
	stats.UniqueProducts = len(products)
	if stats.Total > 0 {
		stats.OccupancyPercent = float64(stats.Occupied) * 100 / float64(stats.Total)
	}
	return stats
}

// History returns the bounded audit trail, oldest first.
func (s *Store) History() []AuditRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]AuditRecord, len(s.audit))
	copy(cp, s.audit)
	return cp
}

// Grid returns a textual grid representation, one row per rack row. Occupied
// positions render as "[07]", empty as " 07 ".
func (s *Store) Grid() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	grid := make([][]string, 0, s.layout.Rows)
	for r := 1; r <= s.layout.Rows; r++ {
		row := make([]string, 0, s.layout.Columns)
		for c := 1; c <= s.layout.Columns; c++ {
			id := (r-1)*s.layout.Columns + c
			if id > len(s.positions) {
				row = append(row, "    ")
				continue
			}
			if s.positions[id-1].State == StateOccupied {
				row = append(row, fmt.Sprintf("[%02d]", id))
			} else {
				row = append(row, fmt.Sprintf(" %02d ", id))
			}
		}
		grid = append(grid, row)
	}
	return grid
}

func (s *Store) valid(id int) bool {
	return id >= 1 && id <= len(s.positions)
}

func (s *Store) appendAudit(record AuditRecord) {
	s.audit = append(s.audit, record)
	if len(s.audit) > auditCap {
		s.audit = s.audit[len(s.audit)-auditCap:]
	}
}
