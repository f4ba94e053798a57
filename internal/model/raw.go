package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RawID is an identifier as supplied by the caller: a JSON number, a string, or absent.
type RawID struct {
	Number *float64
	Text   *string
}

// NumberID builds a RawID from a numeric identifier.
func NumberID(n float64) RawID { return RawID{Number: &n} }

// TextID builds a RawID from a string identifier.
func TextID(s string) RawID { return RawID{Text: &s} }

// IsZero reports whether no identifier was supplied.
func (id RawID) IsZero() bool { return id.Number == nil && id.Text == nil }

// UnmarshalJSON accepts numbers and strings; anything else leaves the id unset.
func (id *RawID) UnmarshalJSON(data []byte) error {
	*id = RawID{}
	if isNull(data) {
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		id.Number = &n
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		id.Text = &s
	}
	return nil
}

// MarshalJSON writes the id back in the shape it arrived in.
func (id RawID) MarshalJSON() ([]byte, error) {
	switch {
	case id.Number != nil:
		return json.Marshal(*id.Number)
	case id.Text != nil:
		return json.Marshal(*id.Text)
	}
	return []byte("null"), nil
}

// StringList decodes either a single string or a list of strings.
type StringList []string

// UnmarshalJSON accepts a string, a number, or an array of either; other shapes decode to nil.
func (l *StringList) UnmarshalJSON(data []byte) error {
	*l = looseStrings(data)
	return nil
}

// RawCodeItem is a code suggestion exactly as produced by the coding model or
// extraction step. Every field is optional and loosely typed.
type RawCodeItem struct {
	ID             RawID
	Code           string
	Title          string
	Status         string
	Details        string
	Description    string
	CodeType       string
	Confidence     *float64
	Evidence       []string
	Gaps           []string
	Classification StringList
	Category       string
	Tags           StringList
	Reimbursement  *float64
	RVU            *float64

	// Extra holds keys this package does not interpret, preserved verbatim.
	Extra map[string]json.RawMessage
}

var rawCodeItemKeys = map[string]bool{
	"id": true, "code": true, "title": true, "status": true, "details": true,
	"description": true, "codeType": true, "confidence": true, "evidence": true,
	"gaps": true, "classification": true, "category": true, "tags": true,
	"reimbursement": true, "rvu": true,
}

// UnmarshalJSON decodes leniently: a field of the wrong shape is dropped rather
// than failing the whole item. Non-object input yields an empty item.
func (r *RawCodeItem) UnmarshalJSON(data []byte) error {
	*r = RawCodeItem{}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	if v, ok := fields["id"]; ok {
		_ = r.ID.UnmarshalJSON(v)
	}
	r.Code = looseString(fields["code"])
	r.Title = looseString(fields["title"])
	r.Status = looseString(fields["status"])
	r.Details = looseString(fields["details"])
	r.Description = looseString(fields["description"])
	r.CodeType = looseString(fields["codeType"])
	r.Confidence = looseFloat(fields["confidence"])
	r.Evidence = looseStrings(fields["evidence"])
	r.Gaps = looseStrings(fields["gaps"])
	r.Classification = looseStrings(fields["classification"])
	r.Category = looseString(fields["category"])
	r.Tags = looseStrings(fields["tags"])
	r.Reimbursement = looseFloat(fields["reimbursement"])
	r.RVU = looseFloat(fields["rvu"])

	for k, v := range fields {
		if rawCodeItemKeys[k] {
			continue
		}
		if r.Extra == nil {
			r.Extra = make(map[string]json.RawMessage)
		}
		r.Extra[k] = v
	}
	return nil
}

// RawComplianceItem is a compliance finding as supplied by the caller.
type RawComplianceItem struct {
	ID          RawID
	Title       string
	Description string
	Status      string
}

// UnmarshalJSON decodes leniently, like RawCodeItem.
func (r *RawComplianceItem) UnmarshalJSON(data []byte) error {
	*r = RawComplianceItem{}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	if v, ok := fields["id"]; ok {
		_ = r.ID.UnmarshalJSON(v)
	}
	r.Title = looseString(fields["title"])
	r.Description = looseString(fields["description"])
	if r.Description == "" {
		r.Description = looseString(fields["details"])
	}
	r.Status = looseString(fields["status"])
	return nil
}

// DecodeRawCodeItems decodes any JSON value into raw code items. Anything other
// than an array decodes to an empty list.
func DecodeRawCodeItems(data []byte) []RawCodeItem {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return []RawCodeItem{}
	}
	items := make([]RawCodeItem, len(elems))
	for i, e := range elems {
		_ = items[i].UnmarshalJSON(e)
	}
	return items
}

// DecodeRawComplianceItems decodes any JSON value into raw compliance items.
func DecodeRawComplianceItems(data []byte) []RawComplianceItem {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return []RawComplianceItem{}
	}
	items := make([]RawComplianceItem, len(elems))
	for i, e := range elems {
		_ = items[i].UnmarshalJSON(e)
	}
	return items
}

func isNull(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) == 0 || bytes.Equal(data, []byte("null"))
}

func looseString(data json.RawMessage) string {
	data = bytes.TrimSpace(data)
	if isNull(data) {
		return ""
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return ""
}

func looseStrings(data json.RawMessage) []string {
	data = bytes.TrimSpace(data)
	if isNull(data) {
		return nil
	}
	if data[0] != '[' {
		if s := looseString(data); s != "" {
			return []string{s}
		}
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil
	}
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		if s := looseString(e); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func looseFloat(data json.RawMessage) *float64 {
	data = bytes.TrimSpace(data)
	if isNull(data) {
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		return &n
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimPrefix(strings.TrimSpace(s), "$")
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return &f
		}
	}
	return nil
}
