package mux

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"dealmein-server/pkg/holdem"
)

func (m *Mux) getTableID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := m.director.TableView(r.Context(), mux.Vars(r)["id"], requester(r).PlayerID())
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, view)
	}
}

type postTableIDActionPayload struct {
	Action string `json:"action"`
	Amount int    `json:"amount"`
}

func (m *Mux) postTableIDAction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload postTableIDActionPayload
		if !decodeRequest(w, r, &payload) {
			return
		}

		action, err := holdem.FromString(payload.Action)
		if err != nil {
			writeError(w, err)
			return
		}

		playerID := requester(r).PlayerID()
		table, err := m.director.Act(r.Context(), mux.Vars(r)["id"], playerID, action, payload.Amount)
		if err != nil {
			writeError(w, err)
			return
		}

		m.tableChanged(r, table)
		writeJSON(w, http.StatusOK, holdem.ToClientState(table, playerID))
	}
}

func (m *Mux) postTableIDDealMeIn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := requester(r).PlayerID()
		table, err := m.director.ConfirmDealIn(r.Context(), mux.Vars(r)["id"], playerID)
		if err != nil {
			writeError(w, err)
			return
		}

		m.tableChanged(r, table)
		writeJSON(w, http.StatusOK, holdem.ToClientState(table, playerID))
	}
}

// tableChanged pushes the new table version to websocket clients
func (m *Mux) tableChanged(r *http.Request, table *holdem.GameState) {
	if err := m.hub.Refresh(r.Context(), table.TableID); err != nil {
		logrus.WithError(err).WithField("tableId", table.TableID).Error("could not refresh table")
	}
}
