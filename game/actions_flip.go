package game

import (
	"errors"
	"log/slog"

	"card-memory-server/gameerrors"
	"card-memory-server/view"
)

func (g *Game) handleFlipCard(cardIndex int) {
	res, err := g.Session.Reveal(cardIndex)
	if err != nil {
		if errors.Is(err, gameerrors.ErrCardOutOfRange) {
			g.sendError("Card index out of range.")
		} else {
			slog.Error("reveal failed", "tag", "game", "game", g.ID, "index", cardIndex, "err", err)
		}
		return
	}

	switch res.Outcome {
	case Ignored:
		// Face-up, paired, or waiting for a mismatch to flip back.
		return

	case FirstRevealed:
		g.sendFlip(res.Card, true)

	case Matched, Finished:
		g.sendTried()
		g.sendFlip(res.Card, true)
		g.sendScore()
		g.sendCards("pair", view.ClassPaired, res.Pair)
		if res.Outcome == Finished {
			g.sendCompleted()
		}

	case Mismatched:
		g.sendTried()
		g.sendFlip(res.Card, true)
		g.sendCards("wrong", view.ClassWrong, res.Pair)
		g.scheduleReset(g.Session.TriedTimes)
	}

	g.sendState()
	slog.Debug("card action", "tag", "game", "game", g.ID, "index", cardIndex,
		"outcome", res.Outcome, "state", g.Session.State, "revealed", g.Session.RevealedIndices())

	if res.Outcome == Finished {
		g.finish()
	}
}

func (g *Game) handleResetMismatch(turn int) {
	// A reset from an older attempt is stale.
	if turn != g.Session.TriedTimes {
		return
	}
	flipped, ok := g.Session.ResetMismatch()
	if !ok {
		return
	}
	for _, c := range flipped {
		g.sendFlip(c, false)
	}
	g.sendState()
	slog.Debug("mismatch reset", "tag", "game", "game", g.ID, "state", g.Session.State)
}

func (g *Game) handleCueEnded(cardIndex int) {
	g.Session.EndWrongCue(cardIndex)
}
