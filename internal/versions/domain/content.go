package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// ElementType is the discriminant of a content element. Only change-cards are interpreted; every
// other type is carried through untouched.
type ElementType string

const ElementChangeCard ElementType = "change-card"

// Content is the typed view of a page's rows -> columns -> elements tree.
type Content struct {
	Rows []Row
}

type Row struct {
	ID      string
	Columns []Column
}

type Column struct {
	ID       string
	Elements []Element
}

type Element struct {
	ID   string
	Type ElementType
	Data map[string]interface{}
}

// ChangeCard decodes the element as a change-card. Missing fields take defaults; ok is false for
// any other element type.
func (e Element) ChangeCard() (card ChangeCard, ok bool) {
	if e.Type != ElementChangeCard {
		return ChangeCard{}, false
	}
	return changeCardFromData(e.ID, e.Data), true
}

// Walk visits every element depth-first in row, column, element order.
func (c Content) Walk(fn func(Element)) {
	for _, r := range c.Rows {
		for _, col := range r.Columns {
			for _, el := range col.Elements {
				fn(el)
			}
		}
	}
}

// ParseContent builds the typed tree from stored JSON. It never fails: anything missing or of the
// wrong shape at any level is treated as an empty collection and skipped.
func ParseContent(raw json.RawMessage) Content {
	top, ok := rawObject(raw)
	if !ok {
		return Content{}
	}

	var c Content
	for _, rr := range rawList(top["rows"]) {
		rowObj, ok := rawObject(rr)
		if !ok {
			continue
		}
		row := Row{ID: rawString(rowObj["id"])}
		for _, cr := range rawList(rowObj["columns"]) {
			colObj, ok := rawObject(cr)
			if !ok {
				continue
			}
			col := Column{ID: rawString(colObj["id"])}
			for _, er := range rawList(colObj["elements"]) {
				elObj, ok := rawObject(er)
				if !ok {
					continue
				}
				el := Element{
					ID:   rawString(elObj["id"]),
					Type: ElementType(rawString(elObj["type"])),
				}
				if data, ok := rawObject(elObj["data"]); ok {
					el.Data = make(map[string]interface{}, len(data))
					for k, v := range data {
						var val interface{}
						if err := json.Unmarshal(v, &val); err == nil {
							el.Data[k] = val
						}
					}
				}
				col.Elements = append(col.Elements, el)
			}
			row.Columns = append(row.Columns, col)
		}
		c.Rows = append(c.Rows, row)
	}
	return c
}

var (
	errContentNotObject  = errors.New("content must be a JSON object")
	errRowsNotArray      = errors.New("content.rows must be an array")
	errSettingsNotObject = errors.New("settings must be a JSON object")
)

// ValidateContent checks the shape accepted on save: an object whose rows, when present, is an array.
// Deeper levels are free-form and handled leniently on read.
func ValidateContent(raw json.RawMessage) error {
	top, ok := rawObject(raw)
	if !ok {
		return errContentNotObject
	}
	if rows, present := top["rows"]; present && !isNull(rows) {
		if _, ok := rawArray(rows); !ok {
			return errRowsNotArray
		}
	}
	return nil
}

func ValidateSettings(raw json.RawMessage) error {
	if _, ok := rawObject(raw); !ok {
		return errSettingsNotObject
	}
	return nil
}

func rawObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, false
	}
	return m, true
}

func rawArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}
	var l []json.RawMessage
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, false
	}
	return l, true
}

func rawList(raw json.RawMessage) []json.RawMessage {
	l, _ := rawArray(raw)
	return l
}

func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func stringField(data map[string]interface{}, key, def string) string {
	switch v := data[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return def
}
