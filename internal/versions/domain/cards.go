package domain

import (
	"encoding/json"
	"sort"
)

const DefaultCardTitle = "Untitled"

// Change is one line item on a change-card.
type Change struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ChangeCard summarises a set of release changes.
type ChangeCard struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	Icon     string   `json:"icon"`
	Changes  []Change `json:"changes"`
}

// VersionCards groups the change-cards found on one version's page.
type VersionCards struct {
	ID      string       `json:"id"`
	Version string       `json:"version"`
	Title   string       `json:"title"`
	Cards   []ChangeCard `json:"cards"`
}

// ExtractCards scans each version's page content (keyed by version id) for change-card elements.
// Versions are returned newest first; a version without a page or with a malformed tree yields no
// cards rather than an error.
func ExtractCards(versions []Version, contents map[string]json.RawMessage) []VersionCards {
	ordered := make([]Version, len(versions))
	copy(ordered, versions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
	})

	out := make([]VersionCards, 0, len(ordered))
	for _, v := range ordered {
		vc := VersionCards{ID: v.ID, Version: v.Version, Title: v.Title, Cards: []ChangeCard{}}
		ParseContent(contents[v.ID]).Walk(func(el Element) {
			if card, ok := el.ChangeCard(); ok {
				vc.Cards = append(vc.Cards, card)
			}
		})
		out = append(out, vc)
	}
	return out
}

func changeCardFromData(id string, data map[string]interface{}) ChangeCard {
	card := ChangeCard{
		ID:       id,
		Title:    stringField(data, "title", DefaultCardTitle),
		Subtitle: stringField(data, "subtitle", ""),
		Icon:     stringField(data, "icon", ""),
		Changes:  []Change{},
	}

	items, _ := data["changes"].([]interface{})
	for _, it := range items {
		m, ok := it.(map[string]interface{})
		if !ok {
			continue
		}
		card.Changes = append(card.Changes, Change{
			Type: stringField(m, "type", ""),
			Text: stringField(m, "text", ""),
		})
	}
	return card
}
