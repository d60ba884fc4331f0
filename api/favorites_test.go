package api_test

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jira-worklog/api"
	"jira-worklog/favorite"
)

func TestListFavoritesEmpty(t *testing.T) {
	env := newTestServer(t)

	resp := env.do(t, http.MethodGet, "/api/favorites/worklogs", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var favs []favorite.Favorite
	decode(t, resp, &favs)
	if favs == nil || len(favs) != 0 {
		t.Fatalf("expected empty array, got %#v", favs)
	}
}

func TestFavoriteCRUD(t *testing.T) {
	env := newTestServer(t)

	resp := env.do(t, http.MethodPost, "/api/favorites/worklogs",
		`{"ticketKey":"ABC-1","comment":"standup","defaultTimeMinutes":15}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created favorite.Favorite
	decode(t, resp, &created)
	if created.ID == "" || created.TicketKey != "ABC-1" || created.DefaultTimeMinutes != 15 {
		t.Fatalf("unexpected created favorite %+v", created)
	}

	resp = env.do(t, http.MethodPut, "/api/favorites/worklogs/"+created.ID,
		`{"id":"ignored","ticketKey":"ABC-2","comment":"review","defaultTimeMinutes":45}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var updated favorite.Favorite
	decode(t, resp, &updated)
	if updated.ID != created.ID || updated.TicketKey != "ABC-2" {
		t.Fatalf("unexpected updated favorite %+v", updated)
	}

	resp = env.do(t, http.MethodDelete, "/api/favorites/worklogs/"+created.ID, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	resp = env.do(t, http.MethodGet, "/api/favorites/worklogs", "")
	var favs []favorite.Favorite
	decode(t, resp, &favs)
	if len(favs) != 0 {
		t.Fatalf("expected no favorites after delete, got %+v", favs)
	}
}

func TestFavoriteLimit(t *testing.T) {
	env := newTestServer(t)

	for i := 0; i < favorite.MaxFavorites; i++ {
		resp := env.do(t, http.MethodPost, "/api/favorites/worklogs",
			fmt.Sprintf(`{"ticketKey":"ABC-%d","comment":"c","defaultTimeMinutes":30}`, i))
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create %d: expected 201, got %d", i, resp.StatusCode)
		}
	}
	before := env.readFile(t, favorite.FileName)

	resp := env.do(t, http.MethodPost, "/api/favorites/worklogs",
		`{"ticketKey":"ABC-99","comment":"c","defaultTimeMinutes":30}`)
	expectError(t, resp, http.StatusConflict, api.CodeLimitExceeded)

	if after := env.readFile(t, favorite.FileName); after != before {
		t.Fatalf("rejected create modified the file:\n%s\nvs\n%s", before, after)
	}
}

func TestFavoriteNotFound(t *testing.T) {
	env := newTestServer(t)

	resp := env.do(t, http.MethodPut, "/api/favorites/worklogs/nope",
		`{"ticketKey":"ABC-1","comment":"","defaultTimeMinutes":30}`)
	expectError(t, resp, http.StatusNotFound, api.CodeNotFound)

	resp = env.do(t, http.MethodDelete, "/api/favorites/worklogs/nope", "")
	expectError(t, resp, http.StatusNotFound, api.CodeNotFound)
}

func TestFavoriteInvalid(t *testing.T) {
	env := newTestServer(t)

	resp := env.do(t, http.MethodPost, "/api/favorites/worklogs", `{"ticketKey":"  "}`)
	expectError(t, resp, http.StatusBadRequest, api.CodeInvalidArgument)

	resp = env.do(t, http.MethodPost, "/api/favorites/worklogs", "not-json")
	expectError(t, resp, http.StatusBadRequest, api.CodeInvalidArgument)
}

func TestLegacyFavorites(t *testing.T) {
	env := newTestServer(t)
	env.writeFile(t, favorite.TicketsFileName, "# id,key,label\n1,ABC-1,Daily\n2,ABC-2,\"Review, code\"\n")

	resp := env.do(t, http.MethodGet, "/api/favorites", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var tickets []favorite.Ticket
	decode(t, resp, &tickets)
	if len(tickets) != 2 || tickets[1].Label != "Review, code" {
		t.Fatalf("unexpected tickets %+v", tickets)
	}
}

func TestFavoriteBodyTooLarge(t *testing.T) {
	env := newTestServer(t)

	body := fmt.Sprintf(`{"ticketKey":"ABC-1","comment":%q,"defaultTimeMinutes":30}`, strings.Repeat("x", 70<<10))
	resp := env.do(t, http.MethodPost, "/api/favorites/worklogs", body)
	expectError(t, resp, http.StatusRequestEntityTooLarge, api.CodeRequestTooLarge)

	if _, err := os.Stat(filepath.Join(env.dir, favorite.FileName)); !os.IsNotExist(err) {
		t.Fatalf("oversized request must not write the favorites file, stat err = %v", err)
	}
}
