package model

import "strings"

// Label identifies a column in a PriceTable. It is either a PlainLabel or a
// CompositeLabel; no other implementations exist.
type Label interface {
	// Parts returns the label components in order. A plain label has one part.
	Parts() []string
	// Has reports whether any component equals name.
	Has(name string) bool
	String() string

	isLabel()
}

// PlainLabel is a single-level column name such as "Close".
type PlainLabel string

func (l PlainLabel) Parts() []string      { return []string{string(l)} }
func (l PlainLabel) Has(name string) bool { return string(l) == name }
func (l PlainLabel) String() string       { return string(l) }
func (PlainLabel) isLabel()               {}

// CompositeLabel is a multi-level column name pairing a field with a ticker,
// e.g. ("Close", "SI=F"). Part order follows the provider.
type CompositeLabel []string

func (l CompositeLabel) Parts() []string {
	out := make([]string, len(l))
	copy(out, l)
	return out
}

func (l CompositeLabel) Has(name string) bool {
	for _, p := range l {
		if p == name {
			return true
		}
	}
	return false
}

func (l CompositeLabel) String() string { return "(" + strings.Join(l, ", ") + ")" }
func (CompositeLabel) isLabel()         {}

// SameLabel reports whether a and b are the same kind of label with equal parts.
func SameLabel(a, b Label) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	_, aPlain := a.(PlainLabel)
	_, bPlain := b.(PlainLabel)
	if aPlain != bPlain {
		return false
	}
	ap, bp := a.Parts(), b.Parts()
	if len(ap) != len(bp) {
		return false
	}
	for i := range ap {
		if ap[i] != bp[i] {
			return false
		}
	}
	return true
}
