package mux

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealmein-server/pkg/holdem"
)

// onTheClock returns the id of the player to act and the id of the other player
func onTheClock(t *testing.T, view *holdem.ClientState) (string, string) {
	t.Helper()

	var active, waiting string
	for _, p := range view.Players {
		if p.Seat == view.ActivePlayerPosition {
			active = p.ID
		} else {
			waiting = p.ID
		}
	}

	require.NotEmpty(t, active)
	return active, waiting
}

func TestMux_getTableID(t *testing.T) {
	a := assert.New(t)
	env := newTestEnv(t)
	_, tableID, tokens := startHeadsUp(t, env)

	for viewer, token := range tokens {
		var view holdem.ClientState
		assertGet(t, env.ts, "/table/"+tableID, &view, 200, token)
		a.Equal(viewer, view.ViewerID)
		a.Len(view.Players, 2)

		for _, p := range view.Players {
			if p.ID == viewer {
				a.Len(p.HoleCards, 2)
			} else {
				a.Nil(p.HoleCards)
				a.Equal(2, p.CardCount)
			}
		}
	}

	assertGet(t, env.ts, "/table/missing", nil, 404, tokens[firstKey(tokens)])
}

func TestMux_postTableIDAction(t *testing.T) {
	a := assert.New(t)
	env := newTestEnv(t)
	_, tableID, tokens := startHeadsUp(t, env)
	path := "/table/" + tableID

	var view holdem.ClientState
	assertGet(t, env.ts, path, &view, 200, tokens[firstKey(tokens)])
	active, waiting := onTheClock(t, &view)

	var errObj errorResponse
	assertPost(t, env.ts, path+"/action", postTableIDActionPayload{Action: "check"}, &errObj, 400, tokens[waiting])
	a.Equal("illegal action: it is not your turn", errObj.Message)

	assertPost(t, env.ts, path+"/action", postTableIDActionPayload{Action: "dance"}, &errObj, 400, tokens[active])
	assertPost(t, env.ts, path+"/action", "{", &errObj, 400, tokens[active])
	assertPost(t, env.ts, "/table/missing/action", postTableIDActionPayload{Action: "fold"}, nil, 404, tokens[active])

	assertPost(t, env.ts, path+"/action", postTableIDActionPayload{Action: "fold"}, &view, 200, tokens[active])
	a.Equal(active, view.ViewerID)
	a.Equal(holdem.RoundShowdown, view.BettingRound)
	a.Len(view.Results, 1)
	if a.NotNil(view.LastAction) {
		a.Equal(holdem.Fold, view.LastAction.Action)
	}

	assertPost(t, env.ts, path+"/deal-me-in", nil, &errObj, 400, tokens[active])
	a.Equal("illegal action: no hand in progress", errObj.Message)
}

func TestMux_postTableIDDealMeIn(t *testing.T) {
	a := assert.New(t)
	env := newTestEnv(t)
	_, tableID, tokens := startHeadsUp(t, env)
	path := "/table/" + tableID

	var view holdem.ClientState
	assertGet(t, env.ts, path, &view, 200, tokens[firstKey(tokens)])
	_, waiting := onTheClock(t, &view)

	assertPost(t, env.ts, path+"/deal-me-in", nil, &view, 200, tokens[waiting])
	for _, p := range view.Players {
		a.Equal(p.ID == waiting, p.DealtInConfirmed, p.ID)
	}
}

func firstKey(m map[string]string) string {
	for k := range m {
		return k
	}

	return ""
}
