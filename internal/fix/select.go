package fix

import (
	"cmp"
	"fmt"
	"slices"

	"emptylines/internal/diag"
)

type candidate struct {
	diag  *diag.Diagnostic
	fix   diag.Fix
	order int // position in the diagnostics, for stable ties
}

// FixID returns the identifier of d.Fixes[idx]: its own ID, or
// CODE-file-start-idx built from the primary span.
func FixID(d *diag.Diagnostic, idx int) string {
	if id := d.Fixes[idx].ID; id != "" {
		return id
	}
	return fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, idx)
}

// gatherCandidates flattens the fixes of diagnostics, assigning IDs. Fixes
// without edits and repeated IDs are skipped.
func gatherCandidates(diagnostics []*diag.Diagnostic) ([]candidate, []SkippedFix) {
	var (
		cands []candidate
		skips []SkippedFix
		seen  = make(map[string]struct{})
	)
	for _, d := range diagnostics {
		if d == nil {
			continue
		}
		for idx, f := range d.Fixes {
			f.ID = FixID(d, idx)
			reason := ""
			if len(f.Edits) == 0 {
				reason = "fix has no edits"
			} else if _, dup := seen[f.ID]; dup {
				reason = "duplicate fix id"
			}
			if reason != "" {
				skips = append(skips, SkippedFix{ID: f.ID, Title: f.Title, Reason: reason})
				continue
			}
			seen[f.ID] = struct{}{}
			cands = append(cands, candidate{diag: d, fix: f, order: len(cands)})
		}
	}
	return cands, skips
}

// sortCandidates orders by primary location first so that, among
// conflicting fixes, the one nearest the top of the file wins.
func sortCandidates(cands []candidate) {
	slices.SortStableFunc(cands, func(a, b candidate) int {
		pa, pb := a.diag.Primary, b.diag.Primary
		return cmp.Or(
			cmp.Compare(pa.File, pb.File),
			cmp.Compare(pa.Start, pb.Start),
			cmp.Compare(pa.End, pb.End),
			cmp.Compare(a.order, b.order),
		)
	})
}

func selectCandidates(cands []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		i := slices.IndexFunc(cands, func(c candidate) bool { return c.fix.ID == opts.TargetID })
		switch {
		case i < 0:
			return nil, []SkippedFix{{ID: opts.TargetID, Reason: "fix id not found"}}
		case cands[i].fix.RequiresAll:
			return nil, []SkippedFix{{ID: opts.TargetID, Title: cands[i].fix.Title, Reason: "fix requires all fixes to be applied"}}
		}
		return cands[i : i+1], nil

	case ApplyModeAll:
		var selected []candidate
		var skipped []SkippedFix
		for _, c := range cands {
			if c.fix.Applicability != diag.FixApplicabilityAlwaysSafe {
				skipped = append(skipped, SkippedFix{ID: c.fix.ID, Title: c.fix.Title, Reason: "applicability is " + c.fix.Applicability.String()})
				continue
			}
			selected = append(selected, c)
		}
		return selected, skipped

	case ApplyModeOnce:
		var skipped []SkippedFix
		var fallback []candidate
		for i, c := range cands {
			if c.fix.RequiresAll {
				skipped = append(skipped, SkippedFix{ID: c.fix.ID, Title: c.fix.Title, Reason: "fix requires all fixes to be applied"})
				continue
			}
			if c.fix.Applicability == diag.FixApplicabilityAlwaysSafe {
				return cands[i : i+1], skipped
			}
			if fallback == nil {
				fallback = cands[i : i+1]
			}
		}
		return fallback, skipped
	}
	return nil, nil
}
