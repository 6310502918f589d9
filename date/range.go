package date

// Range represents a range of dates, boundaries included.
type Range struct{ From, To Date }

// LookBack returns the range of the days days preceding d, and d itself.
func LookBack(d Date, days int) Range {
	if days < 0 {
		days = 0
	}
	return Range{From: d.Add(-days), To: d}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return (!date.Before(r.From) && !date.After(r.To)) }

// String returns "from..to".
func (r Range) String() string { return r.From.String() + ".." + r.To.String() }
