package techplan

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// mdRenderer escapes raw HTML in plan text (WithUnsafe is not set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// Markdown renders the printable plan for the named swimmer. Blank values
// print as a dash so the sheet keeps its layout.
func Markdown(swimmer string, d Document) string {
	d = d.fill()
	var b strings.Builder

	title := "Techniekplan"
	if swimmer != "" {
		title += " " + swimmer
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	writeExercise := func(heading string, e Exercise) {
		fmt.Fprintf(&b, "## %s\n\n", heading)
		fmt.Fprintf(&b, "- **Omschrijving:** %s\n", orDash(e.Description))
		fmt.Fprintf(&b, "- **Doel:** %s\n", orDash(e.Goal))
		fmt.Fprintf(&b, "- **Uitvoeren vanaf:** %s\n\n", orDash(e.EffectiveFrom))
	}
	writeExercise("Techniekoefening 1", d.Exercise1)
	writeExercise("Techniekoefening 2", d.Exercise2)

	b.WriteString("## Belangrijkste techniekaccent per slag\n\n")
	for _, s := range d.strokes() {
		fmt.Fprintf(&b, "### %s\n\n", s.title)
		for i, it := range *s.items {
			fmt.Fprintf(&b, "%d. %s (focus vanaf %s)\n", i+1, orDash(it.Description), orDash(it.EffectiveFrom))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Accenten bij starten en keren\n\n")
	fmt.Fprintf(&b, "- **Omschrijving:** %s\n", orDash(d.StartsTurns.Description))
	fmt.Fprintf(&b, "- **Focus vanaf:** %s\n\n", orDash(d.StartsTurns.EffectiveFrom))

	b.WriteString("## Verbeterpunten raceverdeling\n\n")
	for i, r := range d.RacePacing {
		fmt.Fprintf(&b, "%d. %s (geconstateerd bij %s)\n", i+1, orDash(r.Description), orDash(r.ObservedAt))
	}
	return b.String()
}

// HTML renders Markdown through goldmark.
func HTML(swimmer string, d Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(Markdown(swimmer, d)), &buf); err != nil {
		return nil, fmt.Errorf("render plan: %w", err)
	}
	return buf.Bytes(), nil
}

func orDash(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "-"
	}
	// keep multi-line text inside its list item
	return strings.ReplaceAll(s, "\n", "\n   ")
}
