package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"holdem-client/card"
	"holdem-client/internal/events"
	"holdem-client/internal/gamestate"
	"holdem-client/internal/handeval"
	"holdem-client/internal/history"
	"holdem-client/internal/wire"
)

// renderer consumes the client's event stream and paints it. It is the
// only goroutine that prints game output, so the terminal never
// interleaves two renders.
type renderer struct {
	app *app

	// lastWhole dedupes countdown prints to one per whole second.
	lastWhole int
}

func newRenderer(a *app) *renderer {
	return &renderer{app: a, lastWhole: -1}
}

func (r *renderer) loop() {
	ch, cancel := r.app.client.Events().Subscribe(256)
	defer cancel()

	for ev := range ch {
		switch ev := ev.(type) {
		case events.StatusChanged:
			pterm.Info.Printfln("Connection: %s", ev.New)

		case events.SnapshotUpdated:
			r.renderSnapshot(ev.Snapshot)

		case events.HandChanged:
			pterm.DefaultSection.Printfln("Hand #%d", ev.Current)
			r.lastWhole = -1

		case events.HandStartedReceived:
			pterm.Info.Printfln("Hand #%d begins, dealer at seat %d", ev.HandNumber, ev.DealerSeat)

		case events.PhaseChanged:
			pterm.Info.Printfln("Street: %s", ev.Current)

		case events.CountdownTick:
			r.renderCountdown(ev)

		case events.ActionAnnounced:
			r.renderAction(ev.Action)

		case events.HandResultReceived:
			r.renderHandResult(ev.Result)

		case events.ChipsChanged:
			pterm.Info.Printfln("%s now has %s chips (%+d)",
				pterm.Cyan(ev.Update.Player), humanize.Comma(ev.Update.Chips), ev.Update.Change)

		case events.ChatReceived:
			pterm.Printfln("%s: %s", pterm.Cyan(ev.Message.Username), ev.Message.Message)

		case events.PlayerLifecycle:
			r.renderLifecycle(ev)

		case events.TableListUpdated:
			renderTables(ev.Tables)

		case events.TableListStale:
			pterm.Info.Println("Table list changed, refreshing")
			r.app.showTables()

		case events.LedgerReceived:
			renderLedger(ev.Ledger)

		case events.StandingsReceived:
			renderStandings(ev.Standings)

		case events.AuthExpired:
			pterm.Warning.Println("Session expired, refreshing...")
			r.app.refreshToken()

		case events.ErrorReported:
			pterm.Error.Println(ev.Message)

		case events.ReturnedToLobby:
			pterm.Warning.Printfln("Returned to lobby: %s", ev.Reason)
		}
	}
}

func (r *renderer) renderCountdown(ev events.CountdownTick) {
	whole := int(ev.Remaining)
	if whole == r.lastWhole || whole > 10 {
		return
	}
	r.lastWhole = whole
	if ev.BankMode {
		pterm.Warning.Printfln("Time bank: %ds", whole)
		return
	}
	pterm.Printfln("Time to act: %ds", whole)
}

func (r *renderer) renderAction(pa wire.PlayerAction) {
	name := pterm.Cyan(pa.User)
	switch pa.Action {
	case wire.ActionBet, wire.ActionRaise:
		pterm.Printfln("%s %ss %s", name, pa.Action, humanize.Comma(pa.Amount))
	case wire.ActionAllIn:
		pterm.Printfln("%s is all in for %s", name, humanize.Comma(pa.Amount))
	default:
		pterm.Printfln("%s %ss", name, pa.Action)
	}
}

func (r *renderer) renderLifecycle(ev events.PlayerLifecycle) {
	name := pterm.Cyan(ev.Username)
	switch ev.Kind {
	case wire.EventPlayerJoined:
		pterm.Info.Printfln("%s joined the table", name)
	case wire.EventPlayerLeft:
		pterm.Info.Printfln("%s left the table", name)
	case wire.EventPlayerDisconnected:
		pterm.Warning.Printfln("%s disconnected", name)
	case wire.EventPlayerReconnected:
		pterm.Info.Printfln("%s reconnected", name)
	}
}

func (r *renderer) renderSnapshot(snap gamestate.Snapshot) {
	me := r.app.client.Username()

	data := pterm.TableData{{"Seat", "Player", "Chips", "Bet", "Cards", ""}}
	for _, p := range snap.Players {
		note := ""
		switch {
		case p.Folded:
			note = "folded"
		case p.AllIn:
			note = "all in"
		case !p.Connected:
			note = "away"
		}
		if p.Username == snap.CurrentPlayer {
			note = strings.TrimSpace(note + " *to act*")
		}
		name := p.Username
		if p.Username == me {
			name = pterm.Cyan(name)
		}
		data = append(data, []string{
			fmt.Sprintf("%d", p.Seat),
			name,
			humanize.Comma(p.Chips),
			humanize.Comma(p.Bet),
			cardsString(p.HoleCards),
			note,
		})
	}

	pterm.Printfln("%s | %s | pot %s | board %s",
		snap.TableID, snap.Phase, humanize.Comma(snap.Pot), cardsString(snap.CommunityCards))
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return
	}

	if p, ok := snap.Player(me); ok && len(p.HoleCards) > 0 {
		if best, ok := handeval.BestOf(p.HoleCards, snap.CommunityCards); ok {
			pterm.Printfln("Your hand: %s (%s)", cardsString(p.HoleCards), best.Category)
		} else {
			pterm.Printfln("Your hand: %s", cardsString(p.HoleCards))
		}
	}

	if snap.CurrentPlayer == me && len(snap.ValidActions) > 0 {
		hint := strings.Join(snap.ValidActions, ", ")
		if snap.CallAmount > 0 {
			hint += fmt.Sprintf(" (call %s, min raise %s)",
				humanize.Comma(snap.CallAmount), humanize.Comma(snap.MinRaise))
		}
		pterm.Success.Printfln("Your turn: %s", hint)
	}
}

func (r *renderer) renderHandResult(res wire.HandResult) {
	for _, w := range res.Winners {
		line := fmt.Sprintf("%s wins %s", pterm.Cyan(w.Username), humanize.Comma(w.Amount))
		if w.Hand != "" {
			line += " with " + w.Hand
		}
		pterm.Success.Println(line)
	}
	for user, shown := range res.ShownHands {
		pterm.Printfln("%s shows %s", pterm.Cyan(user), strings.Join(shown, " "))
	}
}

func renderTables(tables []wire.TableInfo) {
	if len(tables) == 0 {
		pterm.Info.Println("No tables open")
		return
	}
	data := pterm.TableData{{"Table", "Name", "Players", "Status"}}
	for _, t := range tables {
		status := "waiting"
		if t.InProgress {
			status = "in progress"
		}
		data = append(data, []string{
			t.TableID,
			t.Name,
			fmt.Sprintf("%d/%d", t.Players, t.MaxPlayers),
			status,
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func renderRecentHands(hands []history.HandRecord) {
	if len(hands) == 0 {
		pterm.Info.Println("No recorded hands for this table yet")
		return
	}
	data := pterm.TableData{{"Hand", "Pot", "Winners", "Played"}}
	for _, h := range hands {
		winners := make([]string, 0, len(h.Winners))
		for _, w := range h.Winners {
			winners = append(winners, fmt.Sprintf("%s +%s", w.Username, humanize.Comma(w.Amount)))
		}
		data = append(data, []string{
			fmt.Sprintf("#%d", h.HandNumber),
			humanize.Comma(h.Pot),
			strings.Join(winners, ", "),
			humanize.Time(h.PlayedAt),
		})
	}
	pterm.DefaultSection.Println("Recent hands")
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func renderLedger(l wire.Ledger) {
	data := pterm.TableData{{"Player", "Buy-in", "Cash-out", "Net"}}
	for _, e := range l.Entries {
		data = append(data, []string{
			e.Username,
			humanize.Comma(e.BuyIn),
			humanize.Comma(e.CashOut),
			humanize.Comma(e.Net),
		})
	}
	pterm.DefaultSection.Println("Ledger")
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func renderStandings(s wire.Standings) {
	data := pterm.TableData{{"Rank", "Player", "Chips"}}
	for _, e := range s.Entries {
		data = append(data, []string{
			fmt.Sprintf("%d", e.Rank),
			e.Username,
			humanize.Comma(e.Chips),
		})
	}
	pterm.DefaultSection.Println("Standings")
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func cardsString(cs []card.Card) string {
	if len(cs) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, " ")
}
