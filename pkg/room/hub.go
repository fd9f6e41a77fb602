package room

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"dealmein-server/pkg/holdem"
)

// TableSource loads stored tables
type TableSource interface {
	GetTable(ctx context.Context, tableID string) (*holdem.GameState, error)
}

// Hub fans table views out to connected clients. Each client receives its
// own projection and only when the table version has moved on.
type Hub struct {
	tables  TableSource
	log     logrus.FieldLogger
	lock    sync.Mutex
	clients map[string]map[*Client]bool
}

// NewHub returns a hub reading from tables
func NewHub(tables TableSource, logger logrus.FieldLogger) *Hub {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Hub{
		tables:  tables,
		log:     logger,
		clients: make(map[string]map[*Client]bool),
	}
}

// ClientConnected registers the client and sends it the current view
func (h *Hub) ClientConnected(ctx context.Context, client *Client) error {
	h.lock.Lock()
	clients, found := h.clients[client.tableID]
	if !found {
		clients = make(map[*Client]bool)
		h.clients[client.tableID] = clients
	}
	clients[client] = true
	h.lock.Unlock()

	h.log.WithField("client", client.String()).Debug("client connected")
	return h.Refresh(ctx, client.tableID)
}

// ClientDisconnected forgets the client
func (h *Hub) ClientDisconnected(client *Client) {
	h.lock.Lock()
	defer h.lock.Unlock()

	clients, found := h.clients[client.tableID]
	if !found {
		return
	}

	delete(clients, client)
	if len(clients) == 0 {
		delete(h.clients, client.tableID)
	}

	h.log.WithField("client", client.String()).Debug("client disconnected")
}

// TableIDs returns the tables that have at least one client
func (h *Hub) TableIDs() []string {
	h.lock.Lock()
	defer h.lock.Unlock()

	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}

	return ids
}

// Refresh loads the table and sends a new view to every client that has not seen this version
func (h *Hub) Refresh(ctx context.Context, tableID string) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	clients := h.clients[tableID]
	if len(clients) == 0 {
		return nil
	}

	table, err := h.tables.GetTable(ctx, tableID)
	if err != nil {
		return err
	}

	for client := range clients {
		if client.lastVersion >= table.Version {
			continue
		}

		if !client.Send(holdem.ToClientState(table, client.viewerID)) {
			h.log.WithField("client", client.String()).Warn("client is not keeping up, dropping view")
			continue
		}

		client.lastVersion = table.Version
	}

	return nil
}

// RefreshAll refreshes every watched table
func (h *Hub) RefreshAll(ctx context.Context) {
	for _, id := range h.TableIDs() {
		if err := h.Refresh(ctx, id); err != nil {
			h.log.WithError(err).WithField("tableId", id).Error("could not refresh table")
		}
	}
}
