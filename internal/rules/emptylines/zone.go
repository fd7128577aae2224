package emptylines

// ResolveZone picks the zone governing the blank run between the content
// lines prev and next. prev == 0 is the anchor before the first content
// line; next == lastLine+1 is the synthetic terminal. The checks are
// ordered: bof and eof win over eoi, and eoi applies only to the gap right
// after the import block.
func ResolveZone(prev, next, importBoundary, lastLine uint32) Zone {
	switch {
	case prev == 0:
		return ZoneBOF
	case next == lastLine+1:
		return ZoneEOF
	case importBoundary != 0 && prev == importBoundary:
		return ZoneEOI
	default:
		return ZoneDefault
	}
}
