// Package techplan gives the loosely-typed technique plan document a strict
// shape. Older plans stored each stroke as a single object; current plans
// store an ordered list of focus points per stroke. Both decode to Document.
package techplan

import (
	"encoding/json"
	"errors"
	"fmt"

	"swimteam/swimlog/internal/weeks"
)

// ErrInvalidPlan is returned when a persisted plan is not a JSON object.
var ErrInvalidPlan = errors.New("invalid technique plan")

// Exercise is one of the two free-form technique exercises.
type Exercise struct {
	Description   string `json:"description"`
	Goal          string `json:"goal"`
	EffectiveFrom string `json:"effectiveFrom"`
}

// StrokeItem is one technique focus point, active from EffectiveFrom on.
type StrokeItem struct {
	Description   string `json:"description"`
	EffectiveFrom string `json:"effectiveFrom"`
}

// RaceObservation is a pacing issue noticed at a given race.
type RaceObservation struct {
	Description string `json:"description"`
	ObservedAt  string `json:"observedAt"`
}

// Document is the normalized plan. Every list holds at least one row.
type Document struct {
	Exercise1    Exercise          `json:"oef1"`
	Exercise2    Exercise          `json:"oef2"`
	Butterfly    []StrokeItem      `json:"vlinderslag"`
	Backstroke   []StrokeItem      `json:"rugcrawl"`
	Breaststroke []StrokeItem      `json:"schoolslag"`
	Freestyle    []StrokeItem      `json:"borstcrawl"`
	StartsTurns  StrokeItem        `json:"starten_keren"`
	RacePacing   []RaceObservation `json:"raceverdeling"`
}

// Empty returns the plan shown before a coach has written anything.
func Empty() Document {
	return Normalize(nil)
}

// Normalize shapes raw into a Document. raw may be decoded JSON, JSON bytes,
// a Document or nil. Anything it cannot read yields empty fields, never an
// error. Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw any) Document {
	switch v := raw.(type) {
	case Document:
		return v.fill()
	case *Document:
		if v == nil {
			return Document{}.fill()
		}
		return v.fill()
	}
	obj, _ := asObject(raw)
	return fromObject(obj)
}

// Decode is the boundary check applied to stored plans: a document that is
// not a JSON object fails with ErrInvalidPlan. A nil document decodes to the
// empty plan.
func Decode(raw any) (Document, error) {
	switch raw.(type) {
	case nil, Document, *Document:
		return Normalize(raw), nil
	}
	obj, ok := asObject(raw)
	if !ok {
		return Document{}, fmt.Errorf("%w: expected an object, got %T", ErrInvalidPlan, raw)
	}
	return fromObject(obj), nil
}

// Validate checks that every non-empty date is YYYY-MM-DD.
func Validate(d Document) error {
	check := func(field, v string) error {
		if v == "" {
			return nil
		}
		if _, err := weeks.ParseDate(v); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
		return nil
	}
	if err := check("oef1.effectiveFrom", d.Exercise1.EffectiveFrom); err != nil {
		return err
	}
	if err := check("oef2.effectiveFrom", d.Exercise2.EffectiveFrom); err != nil {
		return err
	}
	for _, s := range d.strokes() {
		for i, it := range *s.items {
			if err := check(fmt.Sprintf("%s[%d].effectiveFrom", s.key, i), it.EffectiveFrom); err != nil {
				return err
			}
		}
	}
	if err := check("starten_keren.effectiveFrom", d.StartsTurns.EffectiveFrom); err != nil {
		return err
	}
	for i, r := range d.RacePacing {
		if err := check(fmt.Sprintf("raceverdeling[%d].observedAt", i), r.ObservedAt); err != nil {
			return err
		}
	}
	return nil
}

// Map converts d to the generic form handed to storage.
func (d Document) Map() map[string]any {
	b, err := json.Marshal(d.fill())
	if err != nil {
		return map[string]any{}
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return map[string]any{}
	}
	return out
}

type strokeRef struct {
	key   string
	title string
	items *[]StrokeItem
}

func (d *Document) strokes() []strokeRef {
	return []strokeRef{
		{"vlinderslag", "Vlinderslag", &d.Butterfly},
		{"rugcrawl", "Rugcrawl", &d.Backstroke},
		{"schoolslag", "Schoolslag", &d.Breaststroke},
		{"borstcrawl", "Borstcrawl", &d.Freestyle},
	}
}

// fill copies d, replacing empty lists with one blank row.
func (d Document) fill() Document {
	out := d
	for _, s := range out.strokes() {
		items := append([]StrokeItem(nil), (*s.items)...)
		if len(items) == 0 {
			items = []StrokeItem{{}}
		}
		*s.items = items
	}
	out.RacePacing = append([]RaceObservation(nil), d.RacePacing...)
	if len(out.RacePacing) == 0 {
		out.RacePacing = []RaceObservation{{}}
	}
	return out
}

func fromObject(obj map[string]any) Document {
	var d Document
	d.Exercise1 = exercise(obj["oef1"])
	d.Exercise2 = exercise(obj["oef2"])
	for _, s := range d.strokes() {
		*s.items = strokeItems(obj[s.key])
	}
	d.StartsTurns = strokeItem(obj["starten_keren"])
	d.RacePacing = raceObservations(obj["raceverdeling"])
	return d.fill()
}

func exercise(v any) Exercise {
	m, _ := v.(map[string]any)
	return Exercise{
		Description:   field(m, "description", "omschrijving"),
		Goal:          field(m, "goal", "doel"),
		EffectiveFrom: field(m, "effectiveFrom", "vanaf"),
	}
}

func strokeItem(v any) StrokeItem {
	m, _ := v.(map[string]any)
	return StrokeItem{
		Description:   field(m, "description", "omschrijving"),
		EffectiveFrom: field(m, "effectiveFrom", "vanaf"),
	}
}

// strokeItems accepts the current list form and the legacy single object.
func strokeItems(v any) []StrokeItem {
	switch x := v.(type) {
	case []any:
		out := make([]StrokeItem, 0, len(x))
		for _, it := range x {
			out = append(out, strokeItem(it))
		}
		return out
	case map[string]any:
		return []StrokeItem{strokeItem(x)}
	}
	return nil
}

func raceObservations(v any) []RaceObservation {
	read := func(it any) RaceObservation {
		m, _ := it.(map[string]any)
		return RaceObservation{
			Description: field(m, "description", "omschrijving"),
			ObservedAt:  field(m, "observedAt", "geconstateerd_bij"),
		}
	}
	switch x := v.(type) {
	case []any:
		out := make([]RaceObservation, 0, len(x))
		for _, it := range x {
			out = append(out, read(it))
		}
		return out
	case map[string]any:
		return []RaceObservation{read(x)}
	}
	return nil
}

// field returns the first present key as a string. Numbers and booleans are
// printed; other types read as "".
func field(m map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch x := v.(type) {
		case string:
			return x
		case float64, int, int64, bool:
			return fmt.Sprint(x)
		default:
			return ""
		}
	}
	return ""
}

// asObject reads raw as a JSON object. Values of other Go types go through a
// JSON round trip so storage-specific map types decode too.
func asObject(raw any) (map[string]any, bool) {
	var data []byte
	switch v := raw.(type) {
	case nil:
		return nil, false
	case map[string]any:
		return v, true
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	case string:
		data = []byte(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, false
		}
		data = b
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}
