package analyzer

import "github.com/Twibooru/fancy-searchable/queryast"

// bounds is the internal range-shaped value produced by integer/float/date
// normalization (spec §4.2 steps 5 and 8). A nil field in bounds means that
// bound is absent from the resulting range.
type bounds struct {
	Gt, Gte, Lt, Lte any
}

func (b bounds) toRange(field string) queryast.Range {
	return queryast.Range{Field: field, Gt: b.Gt, Gte: b.Gte, Lt: b.Lt, Lte: b.Lte}
}
