// Package view projects a device record through the field registry into a
// view-model that front ends render without further logic.
//
// Build is pure: the same record, registry and Env always produce the same
// Model. Front ends rebuild the whole model on every change; there is no
// diffing.
package view

import (
	"fmt"
	"strings"

	"github.com/muurk/androidlens/internal/device"
	"github.com/muurk/androidlens/internal/fields"
)

// Item is one rendered attribute
type Item struct {
	Key         string      `json:"key"`
	Label       string      `json:"label"`
	Icon        string      `json:"icon"`
	Text        string      `json:"text"`
	Tone        fields.Tone `json:"tone"`
	Class       string      `json:"class,omitempty"`
	Highlighted bool        `json:"highlighted,omitempty"`
}

// Section is a titled group of items
type Section struct {
	Key   fields.Section `json:"key"`
	Title string         `json:"title"`
	Items []Item         `json:"items"`
}

// Model is the complete dashboard view-model
type Model struct {
	Sections []Section `json:"sections"`
	Loading  bool      `json:"loading"`
	Query    string    `json:"query,omitempty"`
}

// Build renders record through reg. Record keys without a descriptor are
// skipped; descriptors whose key is missing from the record render null.
func Build(record device.Record, reg fields.Registry, env fields.Env) Model {
	m := Model{
		Sections: make([]Section, 0, len(fields.Sections)),
		Loading:  record.IsLoading(),
	}

	for _, sec := range fields.Sections {
		s := Section{Key: sec, Title: sec.Title(), Items: []Item{}}
		for _, d := range reg.InSection(sec) {
			v := record.Get(d.Key)
			tone := d.Tone(v, env)
			s.Items = append(s.Items, Item{
				Key:   d.Key,
				Label: d.Label,
				Icon:  d.IconOrDefault(),
				Text:  d.Text(v, env),
				Tone:  tone,
				Class: tone.CSSClass(),
			})
		}
		m.Sections = append(m.Sections, s)
	}

	return m
}

// Highlight returns a copy of m with items whose text contains term marked.
// Matching is case-insensitive and the term is used as typed, spaces
// included; an empty term clears all marks.
func (m Model) Highlight(term string) Model {
	term = strings.ToLower(term)

	out := Model{
		Sections: make([]Section, len(m.Sections)),
		Loading:  m.Loading,
		Query:    term,
	}
	for i, s := range m.Sections {
		items := make([]Item, len(s.Items))
		for j, it := range s.Items {
			it.Highlighted = term != "" && strings.Contains(strings.ToLower(it.Text), term)
			items[j] = it
		}
		s.Items = items
		out.Sections[i] = s
	}
	return out
}

// Item returns the rendered item for key
func (m Model) Item(key string) (Item, bool) {
	for _, s := range m.Sections {
		for _, it := range s.Items {
			if it.Key == key {
				return it, true
			}
		}
	}
	return Item{}, false
}

// Items returns every item across sections in display order
func (m Model) Items() []Item {
	var out []Item
	for _, s := range m.Sections {
		out = append(out, s.Items...)
	}
	return out
}

// Matches counts highlighted items
func (m Model) Matches() int {
	n := 0
	for _, it := range m.Items() {
		if it.Highlighted {
			n++
		}
	}
	return n
}

// FormatCompact returns one "Label: text" line per item, without section
// titles
func (m Model) FormatCompact() string {
	var b strings.Builder

	width := 0
	for _, it := range m.Items() {
		if len(it.Label) > width {
			width = len(it.Label)
		}
	}
	for _, it := range m.Items() {
		b.WriteString(fmt.Sprintf("%-*s  %s\n", width+1, it.Label+":", it.Text))
	}

	return b.String()
}
