package query

import "math"

// Default pagination bounds.
const (
	DefaultPerPage = 100
	MaxPerPage     = 1000
)

// Limits bounds pagination.
type Limits struct {
	DefaultPer int
	MaxPer     int
}

// DefaultLimits returns the default pagination bounds.
func DefaultLimits() Limits {
	return Limits{DefaultPer: DefaultPerPage, MaxPer: MaxPerPage}
}

// Window is a native skip/limit pair.
type Window struct {
	Skip  int64
	Limit int64
}

// Window resolves a page into skip/limit. A nil page is the first default page;
// non-positive values fall back to defaults and per is capped at MaxPer.
func (l Limits) Window(p *Page) Window {
	l = l.normalized()
	page, per := 1, l.DefaultPer
	if p != nil {
		if p.Page > 0 {
			page = p.Page
		}
		if p.Per > 0 {
			per = p.Per
		}
	}
	if per > l.MaxPer {
		per = l.MaxPer
	}
	// Skip saturates so a page past the end stays past the end.
	skip := int64(math.MaxInt64)
	if int64(page-1) <= math.MaxInt64/int64(per) {
		skip = int64(per) * int64(page-1)
	}
	return Window{Skip: skip, Limit: int64(per)}
}

func (l Limits) normalized() Limits {
	if l.DefaultPer <= 0 {
		l.DefaultPer = DefaultPerPage
	}
	if l.MaxPer <= 0 {
		l.MaxPer = MaxPerPage
	}
	if l.DefaultPer > l.MaxPer {
		l.DefaultPer = l.MaxPer
	}
	return l
}
