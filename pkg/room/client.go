package room

import (
	"fmt"

	"github.com/gorilla/websocket"

	"dealmein-server/pkg/holdem"
)

// Client is a viewer connected to a table via websockets
type Client struct {
	// Conn is the underlying websocket connection, nil in tests
	Conn *websocket.Conn

	// send is a channel for sending views to the client
	send chan *holdem.ClientState

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	tableID  string
	viewerID string

	// lastVersion is the table version the client last received
	lastVersion int64
}

// NewClient returns a new client object. An empty viewerID is a spectator
func NewClient(conn *websocket.Conn, tableID, viewerID string) *Client {
	return &Client{
		Conn:     conn,
		send:     make(chan *holdem.ClientState, 16),
		Close:    make(chan string, 1),
		tableID:  tableID,
		viewerID: viewerID,
	}
}

// TableID returns the table the client is watching
func (c *Client) TableID() string {
	return c.tableID
}

// Send queues a view for the client. Returns false if the client is not keeping up
func (c *Client) Send(view *holdem.ClientState) bool {
	select {
	case c.send <- view:
		return true
	default:
		return false
	}
}

// SendChan returns a read-only channel
func (c *Client) SendChan() <-chan *holdem.ClientState {
	return c.send
}

// String returns a traceable identifier for the viewer and table
func (c *Client) String() string {
	viewer := c.viewerID
	if viewer == "" {
		viewer = "spectator"
	}

	return fmt.Sprintf("%s:%s", viewer, c.tableID)
}
