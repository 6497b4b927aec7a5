package domain

import "errors"

// Page selects a window of the question listing.
//
// A strict page comes from a start/end pair and must lie entirely inside the
// listing. Any other page skips Offset entries and takes at most Limit of the rest.
type Page struct {
	Offset uint64
	Limit  *uint64
	End    *uint64
}

// AllQuestions selects the whole listing
func AllQuestions() Page {
	return Page{}
}

// RangePage selects the half-open range [start, end)
func RangePage(start, end uint64) Page {
	return Page{Offset: start, End: &end}
}

// OffsetPage skips offset entries and takes at most limit; a nil limit takes the rest
func OffsetPage(offset uint64, limit *uint64) Page {
	return Page{Offset: offset, Limit: limit}
}

// Strict reports whether the page came from a start/end range
func (p Page) Strict() bool {
	return p.End != nil
}

// Window resolves the page against a listing of the given size and returns the
// half-open bounds to slice it with.
func (p Page) Window(size int) (int, int, error) {
	n := uint64(size)
	if p.End != nil {
		if *p.End > n || p.Offset > *p.End {
			return 0, 0, ErrOutOfBound
		}
		return int(p.Offset), int(*p.End), nil
	}

	lo := min(p.Offset, n)
	hi := n
	if p.Limit != nil && *p.Limit < hi-lo {
		hi = lo + *p.Limit
	}
	return int(lo), int(hi), nil
}

// KindOf returns the kind of a typed failure anywhere in err's chain
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
