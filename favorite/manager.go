// Package favorite persists favorite work-entry shortcuts.
package favorite

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"jira-worklog/record"
)

// Manager handles the favorites collection and the legacy ticket list.
type Manager struct {
	store   *record.Store[Favorite]
	tickets *record.Store[Ticket]
}

// NewManager returns a Manager whose files are resolved through loc.
func NewManager(loc record.Locator, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("favorite")
	return &Manager{
		store:   record.NewStore[Favorite](FileName, loc, favoriteCodec{}, log),
		tickets: record.NewStore[Ticket](TicketsFileName, loc, ticketCodec{}, log),
	}
}

// List returns all favorites in stored order.
func (m *Manager) List() ([]Favorite, error) {
	return m.store.List()
}

// Get returns the favorite with the given id.
func (m *Manager) Get(id string) (Favorite, error) {
	return m.store.Find(id)
}

// Create stores f, assigning an id if it has none. It fails with
// ErrLimitExceeded, leaving the file untouched, once MaxFavorites exist.
func (m *Manager) Create(f Favorite) (Favorite, error) {
	f, err := normalize(f)
	if err != nil {
		return Favorite{}, err
	}
	return m.store.Create(f, func(existing []Favorite) error {
		if len(existing) >= MaxFavorites {
			return fmt.Errorf("%w: maximum is %d", ErrLimitExceeded, MaxFavorites)
		}
		return nil
	})
}

// Update overwrites every field of the favorite with the given id.
func (m *Manager) Update(id string, f Favorite) (Favorite, error) {
	f, err := normalize(f)
	if err != nil {
		return Favorite{}, err
	}
	return m.store.Update(id, f)
}

// Delete removes the favorite with the given id.
func (m *Manager) Delete(id string) error {
	return m.store.Delete(id)
}

// Tickets returns the legacy favorite ticket list.
func (m *Manager) Tickets() ([]Ticket, error) {
	return m.tickets.List()
}

// Sources returns the collection file names this manager reads.
func (m *Manager) Sources() []string {
	return []string{m.store.Name(), m.tickets.Name()}
}

func normalize(f Favorite) (Favorite, error) {
	f.TicketKey = strings.TrimSpace(f.TicketKey)
	f.Comment = strings.TrimSpace(f.Comment)
	if f.TicketKey == "" {
		return f, fmt.Errorf("%w: ticketKey is required", ErrInvalid)
	}
	if f.DefaultTimeMinutes < 0 {
		return f, fmt.Errorf("%w: defaultTimeMinutes must not be negative", ErrInvalid)
	}
	return f, nil
}
