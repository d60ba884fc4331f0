package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"jira-worklog/notify"
)

const eventHello = "hello"

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleEvents streams data file change notifications to the client. The
// client never sends anything meaningful; reads only detect disconnects.
func (h *handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		writeError(w, http.StatusNotFound, CodeNotFound, "change events are disabled")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// Serialise all WebSocket writes; gorilla/websocket forbids concurrent writes.
	var writeMu sync.Mutex
	writeMsg := func(ev notify.Event) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(ev)
	}

	sub := h.hub.Subscribe()
	defer sub.Close()

	if err := writeMsg(notify.Event{Type: eventHello, At: time.Now()}); err != nil {
		return
	}

	// Goroutine: pump hub events to the client.
	// Exits when the deferred sub.Close closes the channel.
	go func() {
		for ev := range sub.Events() {
			if err := writeMsg(ev); err != nil {
				conn.Close()
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
