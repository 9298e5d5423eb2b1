package techplan

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_LegacySingleStroke(t *testing.T) {
	raw := map[string]any{
		"vlinderslag": map[string]any{"description": "x", "effectiveFrom": "2025-01-01"},
	}
	d := Normalize(raw)
	assert.Equal(t, []StrokeItem{{Description: "x", EffectiveFrom: "2025-01-01"}}, d.Butterfly)
}

func TestNormalize_DutchAliases(t *testing.T) {
	raw := []byte(`{
		"oef1": {"omschrijving": "sculling", "doel": "feel", "vanaf": "2025-02-03"},
		"rugcrawl": [{"omschrijving": "hip rotation", "vanaf": "2025-02-10"}, {"omschrijving": "kick"}],
		"starten_keren": {"omschrijving": "tumble turn"},
		"raceverdeling": [{"omschrijving": "too fast first 50", "geconstateerd_bij": "2025-03-01"}]
	}`)
	d := Normalize(raw)

	assert.Equal(t, Exercise{Description: "sculling", Goal: "feel", EffectiveFrom: "2025-02-03"}, d.Exercise1)
	assert.Equal(t, []StrokeItem{
		{Description: "hip rotation", EffectiveFrom: "2025-02-10"},
		{Description: "kick"},
	}, d.Backstroke)
	assert.Equal(t, StrokeItem{Description: "tumble turn"}, d.StartsTurns)
	assert.Equal(t, []RaceObservation{{Description: "too fast first 50", ObservedAt: "2025-03-01"}}, d.RacePacing)
}

func TestNormalize_EmptyHasOneRowPerList(t *testing.T) {
	for _, raw := range []any{nil, map[string]any{}, []byte("{}"), "not json", 42} {
		d := Normalize(raw)
		assert.Len(t, d.Butterfly, 1)
		assert.Len(t, d.Backstroke, 1)
		assert.Len(t, d.Breaststroke, 1)
		assert.Len(t, d.Freestyle, 1)
		assert.Len(t, d.RacePacing, 1)
		assert.Equal(t, Exercise{}, d.Exercise1)
	}
}

func TestNormalize_BadlyTypedFieldsDefault(t *testing.T) {
	d := Normalize(map[string]any{
		"oef2":          "just a string",
		"schoolslag":    []any{"nope", map[string]any{"description": 12.0}},
		"borstcrawl":    7,
		"raceverdeling": map[string]any{"omschrijving": "legacy single"},
	})
	assert.Equal(t, Exercise{}, d.Exercise2)
	assert.Equal(t, []StrokeItem{{}, {Description: "12"}}, d.Breaststroke)
	assert.Equal(t, []StrokeItem{{}}, d.Freestyle)
	assert.Equal(t, []RaceObservation{{Description: "legacy single"}}, d.RacePacing)
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []any{
		nil,
		map[string]any{"vlinderslag": map[string]any{"omschrijving": "x", "vanaf": "2025-01-01"}},
		[]byte(`{"rugcrawl": [], "raceverdeling": [{"observedAt": "2025-05-05"}]}`),
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once))
		assert.Equal(t, once, Normalize(once.Map()))

		b, err := json.Marshal(once)
		require.NoError(t, err)
		assert.Equal(t, once, Normalize(b))
	}
}

func TestNormalize_DoesNotAliasInput(t *testing.T) {
	d := Document{Butterfly: []StrokeItem{{Description: "a"}}}
	n := Normalize(d)
	n.Butterfly[0].Description = "b"
	assert.Equal(t, "a", d.Butterfly[0].Description)
}

func TestDecode_FailsClosedOnNonObject(t *testing.T) {
	for _, raw := range []any{"[1,2]", []byte("null"), []any{1}, 3.5, "{broken"} {
		_, err := Decode(raw)
		assert.ErrorIs(t, err, ErrInvalidPlan, "%v", raw)
	}

	d, err := Decode(nil)
	require.NoError(t, err)
	assert.Equal(t, Empty(), d)

	d, err = Decode(map[string]any{"oef1": map[string]any{"description": "x"}})
	require.NoError(t, err)
	assert.Equal(t, "x", d.Exercise1.Description)
}

func TestValidate(t *testing.T) {
	d := Empty()
	require.NoError(t, Validate(d))

	d.Butterfly = []StrokeItem{{EffectiveFrom: "2025-01-01"}, {EffectiveFrom: "01-01-2025"}}
	err := Validate(d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vlinderslag[1]")

	d = Empty()
	d.RacePacing[0].ObservedAt = "yesterday"
	assert.Error(t, Validate(d))
}

func TestHTML_EscapesRawHTML(t *testing.T) {
	d := Empty()
	d.Exercise1.Description = "<script>alert(1)</script>"
	d.Freestyle = []StrokeItem{{Description: "high elbow", EffectiveFrom: "2025-04-01"}}

	out, err := HTML("Sanne", d)
	require.NoError(t, err)
	html := string(out)
	assert.Contains(t, html, "<h1>Techniekplan Sanne</h1>")
	assert.Contains(t, html, "high elbow (focus vanaf 2025-04-01)")
	assert.False(t, strings.Contains(html, "<script>"))
}
