package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/sanity-io/litter"

	"dealmein-server/pkg/db"
	"dealmein-server/pkg/holdem"
	"dealmein-server/pkg/store"
	"dealmein-server/pkg/tournament"
)

func newDirector() (*tournament.Director, store.Store) {
	documents := store.NewPostgres(db.Instance())
	return tournament.NewDirector(documents, holdem.NewEngine(nil, nil), nil, nil), documents
}

// leaderboard prints the standings of a tournament
func leaderboard(ctx context.Context, tournamentID string) error {
	director, _ := newDirector()
	state, err := director.GetTournament(ctx, tournamentID)
	if err != nil {
		return err
	}

	data := pterm.TableData{{"Place", "Player", "Chips", "Table", "Status"}}
	for i, e := range state.Standings() {
		place := strconv.Itoa(i + 1)
		status := pterm.LightGreen("playing")
		switch {
		case e.Disqualified:
			status = pterm.LightRed("disqualified")
		case e.Eliminated:
			status = pterm.LightRed("out")
		case e.Place == 1:
			status = pterm.LightYellow("winner")
		}

		if e.Place > 0 {
			place = strconv.Itoa(e.Place)
		}

		data = append(data, []string{place, e.Name, strconv.Itoa(e.Chips), e.TableID, status})
	}

	title := fmt.Sprintf("%s (%s)", state.Config.Name, state.Status)
	pterm.DefaultSection.Println(title)
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// dump prints a stored document in full
func dump(ctx context.Context, kind, docID string) error {
	director, documents := newDirector()
	switch kind {
	case "tournament":
		state, err := director.GetTournament(ctx, docID)
		if err != nil {
			return err
		}

		litter.Dump(state)
	case "table":
		table, err := store.GetTable(ctx, documents, docID)
		if err != nil {
			return err
		}

		litter.Dump(table)
	default:
		return fmt.Errorf("unknown kind: %s", kind)
	}

	return nil
}
