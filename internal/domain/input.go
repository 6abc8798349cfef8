package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Number is a numeric request field that also accepts numeric strings.
// Truthy follows the loose rule clients rely on: a non-empty string or a
// non-zero number.
type Number struct {
	Value  float64
	Truthy bool
}

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*n = Number{}
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*n = Number{}
			return nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("%q is not a number", s)
		}
		*n = Number{Value: v, Truthy: true}
		return nil
	case bytes.Equal(b, []byte("true")), bytes.Equal(b, []byte("false")):
		return fmt.Errorf("expected a number, got %s", b)
	}

	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("expected a number, got %s", b)
	}
	*n = Number{Value: v, Truthy: v != 0}
	return nil
}

// Int truncates the value toward zero.
func (n Number) Int() int {
	return int(n.Value)
}

// truthy reports whether n is present and truthy.
func (n *Number) truthy() bool {
	return n != nil && n.Truthy
}

// StringList is a field sent either as a single string or as an array.
// Non-string array elements and any other JSON type are discarded.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		*l = StringList{v}
	case []any:
		out := make(StringList, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		*l = out
	default:
		*l = StringList{}
	}
	return nil
}

// FallbackReason explains why a specification entry was stored as a
// generic "Feature" row.
type FallbackReason string

const (
	FallbackNone        FallbackReason = ""
	FallbackUndecodable FallbackReason = "undecodable"
	FallbackNotObject   FallbackReason = "not_an_object"
)

// SpecEntry is one parsed specification together with how it was obtained.
type SpecEntry struct {
	Spec     Specification
	Fallback FallbackReason
}

// SpecList holds the parsed entries of a specifications field. IsArray is
// false when the field was sent but was not a JSON array; such values are
// ignored.
type SpecList struct {
	Entries []SpecEntry
	IsArray bool
}

func (l *SpecList) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	items, ok := raw.([]any)
	if !ok {
		*l = SpecList{}
		return nil
	}
	out := SpecList{IsArray: true, Entries: make([]SpecEntry, 0, len(items))}
	for _, item := range items {
		out.Entries = append(out.Entries, parseSpec(item))
	}
	*l = out
	return nil
}

// Specifications returns the parsed rows in order.
func (l SpecList) Specifications() []Specification {
	specs := make([]Specification, 0, len(l.Entries))
	for _, e := range l.Entries {
		specs = append(specs, e.Spec)
	}
	return specs
}

func parseSpec(item any) SpecEntry {
	switch v := item.(type) {
	case map[string]any:
		return SpecEntry{Spec: specFromObject(v)}
	case string:
		var decoded any
		if err := json.Unmarshal([]byte(v), &decoded); err != nil {
			return SpecEntry{Spec: Specification{Key: "Feature", Value: v}, Fallback: FallbackUndecodable}
		}
		obj, ok := decoded.(map[string]any)
		if !ok {
			return SpecEntry{Spec: Specification{Key: "Feature", Value: v}, Fallback: FallbackNotObject}
		}
		return SpecEntry{Spec: specFromObject(obj)}
	default:
		return SpecEntry{Spec: Specification{Key: "Feature", Value: stringify(v)}, Fallback: FallbackNotObject}
	}
}

func specFromObject(obj map[string]any) Specification {
	return Specification{Key: stringify(obj["key"]), Value: stringify(obj["value"])}
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

// ProductInput is the body of product create and update requests. Pointer
// fields distinguish an absent key from an empty value.
type ProductInput struct {
	Name           *string     `json:"name"`
	Description    *string     `json:"description"`
	Price          *Number     `json:"price"`
	CuttedPrice    *Number     `json:"cuttedPrice"`
	Category       *string     `json:"category"`
	Stock          *Number     `json:"stock"`
	Images         *StringList `json:"images"`
	BrandName      *string     `json:"brandname"`
	Logo           *string     `json:"logo"`
	Specifications *SpecList   `json:"specifications"`
}

// ReviewInput is the body of a review submission.
type ReviewInput struct {
	ProductID string  `json:"productId"`
	Rating    *Number `json:"rating"`
	Comment   string  `json:"comment"`
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
