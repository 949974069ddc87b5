package price

import "github.com/shopspring/decimal"

// Candidate is one possible source of a price. Major marks values whose
// contract already guarantees major units (the catalog price).
type Candidate struct {
	Key   string
	Value any
	Unit  string
	Major bool
}

// Resolve returns the first candidate that carries a value at all, converted
// to major units. A present zero still wins over later candidates.
func Resolve(cands ...Candidate) decimal.Decimal {
	d, _ := ResolveFound(cands...)
	return d
}

// ResolveFound is Resolve that also reports whether any candidate was present.
func ResolveFound(cands ...Candidate) (decimal.Decimal, bool) {
	for _, c := range cands {
		if isAbsent(c.Value) {
			continue
		}
		if c.Major {
			return ParseMajor(c.Value), true
		}
		return ToMajorUnitsTagged(c.Value, c.Key, c.Unit), true
	}
	return decimal.Zero, false
}

// FromFields walks SnapshotKeys over a decoded payload object.
func FromFields(fields map[string]any) (decimal.Decimal, bool) {
	unit := UnitTag(fields)
	cands := make([]Candidate, 0, len(SnapshotKeys))
	for _, k := range SnapshotKeys {
		cands = append(cands, Candidate{Key: k, Value: fields[k], Unit: unit})
	}
	return ResolveFound(cands...)
}

// FromProduct reads a product-shaped object: "price" is major units unless
// the object tags it, other amount keys go through FromFields.
func FromProduct(fields map[string]any) (decimal.Decimal, bool) {
	if v, ok := fields["price"]; ok && !isAbsent(v) {
		tag := UnitTag(fields)
		return ResolveFound(Candidate{Key: "price", Value: v, Unit: tag, Major: tag == ""})
	}
	return FromFields(fields)
}

// UnitTag returns the explicit unit tag a payload object carries, if any.
func UnitTag(fields map[string]any) string {
	for _, k := range UnitTagKeys {
		if s, ok := fields[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func isAbsent(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case *decimal.Decimal:
		return x == nil
	}
	return false
}
