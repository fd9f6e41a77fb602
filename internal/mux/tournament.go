package mux

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"dealmein-server/internal/util"
	"dealmein-server/pkg/tournament"
)

func (m *Mux) getTournament() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		states, err := m.director.ListTournaments(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, states)
	}
}

func (m *Mux) postTournament() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cfg tournament.Config
		if !decodeRequest(w, r, &cfg) {
			return
		}

		cfg.CreatorID = requester(r).PlayerID()
		if cfg.Name = strings.TrimSpace(cfg.Name); cfg.Name == "" {
			cfg.Name = util.GetRandomName()
		}

		if cfg.ActionTimeout == 0 {
			cfg.ActionTimeout = m.config.ActionTimeout
		}

		if cfg.DealInGrace == 0 {
			cfg.DealInGrace = m.config.DealInGrace
		}

		if cfg.NextHandDelay == 0 {
			cfg.NextHandDelay = m.config.NextHandDelay
		}

		state, err := m.director.CreateTournament(r.Context(), cfg)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, state)
	}
}

func (m *Mux) getTournamentID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := m.director.GetTournament(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, state)
	}
}

// getTournamentIDPlayers returns the roster ordered by standing
func (m *Mux) getTournamentIDPlayers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		standings, err := m.director.Leaderboard(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, standings)
	}
}

func (m *Mux) postTournamentIDRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := requester(r)
		state, err := m.director.RegisterPlayer(r.Context(), mux.Vars(r)["id"], player.PlayerID(), player.DisplayName)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, state)
	}
}

func (m *Mux) deleteTournamentIDRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := m.director.UnregisterPlayer(r.Context(), mux.Vars(r)["id"], requester(r).PlayerID())
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, state)
	}
}

type postTournamentIDStartResponse struct {
	TableIDs []string `json:"tableIds"`
}

func (m *Mux) postTournamentIDStart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tableIDs, err := m.director.StartTournament(r.Context(), mux.Vars(r)["id"], requester(r).PlayerID())
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, postTournamentIDStartResponse{TableIDs: tableIDs})
	}
}

// postTournamentIDDeadlines runs a deadline pass outside of the pit boss tick.
// It is idempotent, so any authenticated player may trigger it.
func (m *Mux) postTournamentIDDeadlines() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		report, err := m.director.EnforceDeadlines(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}

		m.hub.RefreshAll(r.Context())
		writeJSON(w, http.StatusOK, report)
	}
}
