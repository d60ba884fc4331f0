package favorite

import (
	"errors"
	"strconv"

	"jira-worklog/record"
)

const (
	FileName        = "favorites.csv"
	TicketsFileName = "favorite_tickets.csv"

	// MaxFavorites caps the favorites collection.
	MaxFavorites = 10
	// DefaultTimeMinutes replaces an unreadable stored duration.
	DefaultTimeMinutes = 30
)

var (
	ErrLimitExceeded = errors.New("favorites limit reached")
	ErrInvalid       = errors.New("invalid favorite")
)

// Favorite is a saved work-entry shortcut.
type Favorite struct {
	ID                 string `json:"id"`
	TicketKey          string `json:"ticketKey"`
	Comment            string `json:"comment"`
	DefaultTimeMinutes int    `json:"defaultTimeMinutes"`
}

// Ticket is an entry of the older, read-only favorite ticket list.
type Ticket struct {
	ID    string `json:"id"`
	Key   string `json:"key"`
	Label string `json:"label"`
}

type favoriteCodec struct{}

func (favoriteCodec) Header() string {
	return "schema=1 id,ticketKey,comment,defaultTimeMinutes"
}

func (favoriteCodec) Encode(f Favorite) []string {
	return []string{f.ID, f.TicketKey, f.Comment, strconv.Itoa(f.DefaultTimeMinutes)}
}

func (favoriteCodec) Decode(fields []string) (Favorite, error) {
	if len(fields) < 4 {
		return Favorite{}, record.ErrShortRow
	}
	f := Favorite{ID: fields[0], TicketKey: fields[1], Comment: fields[2]}
	n, err := strconv.Atoi(fields[3])
	if err != nil {
		f.DefaultTimeMinutes = DefaultTimeMinutes
		return f, &record.FieldError{
			Field:   "defaultTimeMinutes",
			Value:   fields[3],
			Default: strconv.Itoa(DefaultTimeMinutes),
		}
	}
	f.DefaultTimeMinutes = n
	return f, nil
}

func (favoriteCodec) ID(f Favorite) string { return f.ID }

func (favoriteCodec) WithID(f Favorite, id string) Favorite {
	f.ID = id
	return f
}

type ticketCodec struct{}

func (ticketCodec) Header() string { return "id,key,label" }

func (ticketCodec) Encode(t Ticket) []string { return []string{t.ID, t.Key, t.Label} }

func (ticketCodec) Decode(fields []string) (Ticket, error) {
	if len(fields) < 3 {
		return Ticket{}, record.ErrShortRow
	}
	return Ticket{ID: fields[0], Key: fields[1], Label: fields[2]}, nil
}

func (ticketCodec) ID(t Ticket) string { return t.ID }

func (ticketCodec) WithID(t Ticket, id string) Ticket {
	t.ID = id
	return t
}
