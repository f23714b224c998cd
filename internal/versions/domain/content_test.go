package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContent_TolerantOfMalformedTrees(t *testing.T) {
	cases := map[string]string{
		"empty":             `{}`,
		"null rows":         `{"rows":null}`,
		"rows not array":    `{"rows":"nope"}`,
		"row without cols":  `{"rows":[{}]}`,
		"col without elems": `{"rows":[{"columns":[{}]}]}`,
		"scalar row":        `{"rows":[1, "x", null]}`,
		"not an object":     `[1,2,3]`,
		"garbage":           `{{{`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			var n int
			ParseContent(json.RawMessage(raw)).Walk(func(Element) { n++ })
			assert.Zero(t, n)
		})
	}
}

func TestParseContent_WalkOrder(t *testing.T) {
	raw := `{"rows":[
		{"id":"r1","columns":[
			{"id":"c1","elements":[{"id":"e1","type":"text","data":{"text":"a"}},{"id":"e2","type":"image"}]},
			{"id":"c2","elements":[{"id":3,"type":"heading","data":{"text":"h","level":3}}]}
		]},
		{"id":"r2","columns":[{"elements":[{"id":"e4","type":"video","data":{"src":"x"}}]}]}
	]}`

	var ids []string
	var kinds []ElementType
	ParseContent(json.RawMessage(raw)).Walk(func(el Element) {
		ids = append(ids, el.ID)
		kinds = append(kinds, el.Type)
	})

	assert.Equal(t, []string{"e1", "e2", "3", "e4"}, ids)
	assert.Equal(t, []ElementType{"text", "image", "heading", "video"}, kinds)
}

func TestElementChangeCard(t *testing.T) {
	card, ok := Element{ID: "c1", Type: ElementChangeCard, Data: map[string]interface{}{"subtitle": "Fixes"}}.ChangeCard()
	require.True(t, ok)
	assert.Equal(t, ChangeCard{ID: "c1", Title: DefaultCardTitle, Subtitle: "Fixes", Changes: []Change{}}, card)

	for _, typ := range []ElementType{"text", "heading", "image", "embed", ""} {
		_, ok := Element{Type: typ, Data: map[string]interface{}{"title": "x"}}.ChangeCard()
		assert.False(t, ok, "type %q", typ)
	}
}

func TestValidateContent(t *testing.T) {
	assert.NoError(t, ValidateContent(json.RawMessage(`{"rows":[]}`)))
	assert.NoError(t, ValidateContent(json.RawMessage(`{"rows":null,"theme":"dark"}`)))
	assert.NoError(t, ValidateContent(json.RawMessage(`{}`)))
	assert.Error(t, ValidateContent(json.RawMessage(`[]`)))
	assert.Error(t, ValidateContent(json.RawMessage(`{"rows":{}}`)))
	assert.Error(t, ValidateContent(json.RawMessage(`"rows"`)))

	assert.NoError(t, ValidateSettings(json.RawMessage(`{"theme":"dark"}`)))
	assert.Error(t, ValidateSettings(json.RawMessage(`null`)))
}

func TestVersionPublish(t *testing.T) {
	v := &Version{}
	assert.Equal(t, StateDraft, v.State())

	first := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	v.Publish(first)
	assert.Equal(t, StatePublished, v.State())
	require.NotNil(t, v.PublishedAt)
	assert.Equal(t, first, *v.PublishedAt)

	second := first.Add(time.Hour)
	v.Publish(second)
	assert.True(t, v.IsPublished)
	assert.Equal(t, second, *v.PublishedAt)
}

func TestSortSections_StableTiebreak(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := []Section{
		{ID: "c", Order: 2, CreatedAt: t0},
		{ID: "b", Order: 1, CreatedAt: t0.Add(time.Minute)},
		{ID: "a", Order: 1, CreatedAt: t0.Add(time.Minute)},
		{ID: "d", Order: 1, CreatedAt: t0},
	}
	SortSections(s)

	var ids []string
	for _, x := range s {
		ids = append(ids, x.ID)
	}
	assert.Equal(t, []string{"d", "a", "b", "c"}, ids)
}

func TestGenerateSlug(t *testing.T) {
	assert.Equal(t, "10-launch", GenerateSlug("1.0", "Launch"))
	assert.Equal(t, "", GenerateSlug("", "!!"))
	assert.Equal(t, FallbackSlug, BaseSlug("", "!!"))
	assert.Equal(t, "Released 1.0", ReleaseTitle("1.0"))
}
