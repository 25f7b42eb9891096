// Package view renders the card table markup. Every function is pure: it derives
// its output from its arguments and the suit images it was built with, and keeps
// no game state between calls.
package view

import (
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"card-memory-server/deck"
)

// CSS classes applied to card elements.
const (
	ClassBack   = "back"
	ClassPaired = "paired"
	ClassWrong  = "wrong"
)

var (
	cardElementTmpl = template.Must(template.New("card").Parse(
		`<div data-index="{{.Index}}" class="card {{.Class}}"></div>`))

	cardContentTmpl = template.Must(template.New("content").Parse(
		`<p>{{.Label}}</p><img src="{{.Image}}" alt="{{.Suit}}"><p>{{.Label}}</p>`))

	completedTmpl = template.Must(template.New("completed").Parse(
		`<div class="completed"><p>Complete!</p><p>{{.Score}}</p><p>{{.Tried}}</p></div>`))
)

// Renderer turns card indices and counters into markup.
type Renderer struct {
	suitImages []string
}

// NewRenderer returns a Renderer using one image URL per suit, in suit order.
func NewRenderer(suitImages []string) *Renderer {
	images := make([]string, len(suitImages))
	copy(images, suitImages)
	return &Renderer{suitImages: images}
}

// CardElement returns the face-down element for a card.
func (r *Renderer) CardElement(index int) string {
	return execute(cardElementTmpl, struct {
		Index int
		Class string
	}{index, ClassBack})
}

// DisplayCards returns the face-down elements for the whole table in display order.
func (r *Renderer) DisplayCards(order []int) string {
	var sb strings.Builder
	for _, idx := range order {
		sb.WriteString(r.CardElement(idx))
	}
	return sb.String()
}

// CardContent returns the face-up content of a card: rank label, suit image, rank label.
func (r *Renderer) CardContent(c deck.Card) string {
	return execute(cardContentTmpl, struct {
		Label string
		Image string
		Suit  string
	}{
		Label: c.Label(),
		Image: r.suitImage(c.Suit()),
		Suit:  c.Suit().String(),
	})
}

// CompletedBanner returns the game complete summary inserted before the page header.
func (r *Renderer) CompletedBanner(score, triedTimes int) string {
	return execute(completedTmpl, struct {
		Score string
		Tried string
	}{
		Score: ScoreText(score),
		Tried: TriedText(triedTimes),
	})
}

// ScoreText is the label of the score display.
func ScoreText(score int) string {
	return fmt.Sprintf("Score: %d", score)
}

// TriedText is the label of the attempt counter.
func TriedText(times int) string {
	return fmt.Sprintf("You've tried: %d times", times)
}

func (r *Renderer) suitImage(s deck.Suit) string {
	if int(s) < 0 || int(s) >= len(r.suitImages) {
		return ""
	}
	return r.suitImages[s]
}

func execute(t *template.Template, data any) string {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		slog.Error("rendering template", "tag", "view", "template", t.Name(), "err", err)
		return ""
	}
	return sb.String()
}
