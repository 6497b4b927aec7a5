// Package pagination turns raw query parameters into validated listing pages.
//
// Extraction is pure: it checks presence and numeric form only. Whether a range fits
// the current listing is decided by the store at read time.
package pagination

import (
	"strconv"

	"github.com/zizouhuweidi/qna/internal/domain"
)

const (
	StartParam  = "start"
	EndParam    = "end"
	OffsetParam = "offset"
	LimitParam  = "limit"
)

// Range is an absolute, half-open index range into the listing
type Range struct {
	Start uint64
	End   uint64
}

// Page converts the range into a strict listing page
func (r Range) Page() domain.Page {
	return domain.RangePage(r.Start, r.End)
}

// Window skips Offset entries and takes Limit of the rest
type Window struct {
	Offset uint64
	Limit  uint64
}

// Page converts the window into a listing page
func (w Window) Page() domain.Page {
	limit := w.Limit
	return domain.OffsetPage(w.Offset, &limit)
}

// ExtractRange reads the start/end pair
func ExtractRange(params map[string]string) (Range, error) {
	start, end, err := extractPair(params, StartParam, EndParam)
	if err != nil {
		return Range{}, err
	}
	return Range{Start: start, End: end}, nil
}

// ExtractWindow reads the offset/limit pair
func ExtractWindow(params map[string]string) (Window, error) {
	offset, limit, err := extractPair(params, OffsetParam, LimitParam)
	if err != nil {
		return Window{}, err
	}
	return Window{Offset: offset, Limit: limit}, nil
}

// Extract picks the page shape from whichever pair the request names. No parameters
// selects the whole listing; parameters that name neither pair are rejected.
func Extract(params map[string]string) (domain.Page, error) {
	if len(params) == 0 {
		return domain.AllQuestions(), nil
	}

	switch {
	case has(params, StartParam) || has(params, EndParam):
		r, err := ExtractRange(params)
		if err != nil {
			return domain.Page{}, err
		}
		return r.Page(), nil
	case has(params, OffsetParam) || has(params, LimitParam):
		w, err := ExtractWindow(params)
		if err != nil {
			return domain.Page{}, err
		}
		return w.Page(), nil
	default:
		return domain.Page{}, domain.ErrMissingParameters
	}
}

// FromQuery flattens multi-valued query parameters, keeping the first value of each key
func FromQuery(values map[string][]string) map[string]string {
	params := make(map[string]string, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			params[key] = vals[0]
		}
	}
	return params
}

func extractPair(params map[string]string, first, second string) (uint64, uint64, error) {
	rawFirst, okFirst := params[first]
	rawSecond, okSecond := params[second]
	if !okFirst || !okSecond {
		return 0, 0, domain.ErrMissingParameters
	}

	a, err := strconv.ParseUint(rawFirst, 10, 64)
	if err != nil {
		return 0, 0, domain.ParseError(err)
	}
	b, err := strconv.ParseUint(rawSecond, 10, 64)
	if err != nil {
		return 0, 0, domain.ParseError(err)
	}
	return a, b, nil
}

func has(params map[string]string, key string) bool {
	_, ok := params[key]
	return ok
}
