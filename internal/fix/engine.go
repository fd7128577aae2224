package fix

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"emptylines/internal/diag"
	"emptylines/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ErrConflict is returned by ApplyToContent when edits overlap.
var ErrConflict = errors.New("overlapping edits")

// ApplyMode picks which fixes Apply uses.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota // the first fix, preferring always-safe ones
	ApplyModeAll                   // every always-safe fix that does not conflict
	ApplyModeID                    // exactly the fix named by TargetID
)

type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID            string
	Title         string
	Code          diag.Code
	Message       string
	Applicability diag.FixApplicability
	PrimaryPath   string
	EditCount     int
}

// SkippedFix is a fix that was not applied, with the reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange is the new content of one file after Apply.
type FileChange struct {
	FileID    source.FileID
	Path      string // relative to the file set base directory
	EditCount int
	Content   []byte
}

type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

// Apply selects fixes from diagnostics according to opts and computes the
// resulting contents. Nothing is written; use WriteFileAtomic for that.
// ErrNoFixes is returned, together with the skip reasons, when nothing
// could be applied.
func Apply(fs *source.FileSet, diagnostics []*diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	candidates, skipped := gatherCandidates(diagnostics)
	result.Skipped = append(result.Skipped, skipped...)
	sortCandidates(candidates)

	selected, skipped := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, skipped...)

	plan := newEditPlan(fs)
	for _, cand := range selected {
		if reason := plan.add(cand); reason != "" {
			result.Skipped = append(result.Skipped, SkippedFix{ID: cand.fix.ID, Title: cand.fix.Title, Reason: reason})
			continue
		}
		result.Applied = append(result.Applied, AppliedFix{
			ID:            cand.fix.ID,
			Title:         cand.fix.Title,
			Code:          cand.diag.Code,
			Message:       cand.diag.Message,
			Applicability: cand.fix.Applicability,
			PrimaryPath:   displayPath(fs, cand.diag.Primary.File),
			EditCount:     len(cand.fix.Edits),
		})
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}

	changes, err := plan.render()
	result.FileChanges = changes
	return result, err
}

// editPlan accumulates the accepted edits per file.
type editPlan struct {
	fs    *source.FileSet
	edits map[source.FileID][]diag.TextEdit
}

func newEditPlan(fs *source.FileSet) *editPlan {
	return &editPlan{fs: fs, edits: make(map[source.FileID][]diag.TextEdit)}
}

// add accepts all edits of cand or none of them. It returns the reason for
// a rejection, or "".
func (p *editPlan) add(cand candidate) string {
	byFile := make(map[source.FileID][]diag.TextEdit)
	for _, edit := range cand.fix.Edits {
		byFile[edit.Span.File] = append(byFile[edit.Span.File], edit)
	}
	for id, edits := range byFile {
		file := p.fs.Get(id)
		if file == nil {
			return fmt.Sprintf("unknown file %d", id)
		}
		if reason := validateEdits(file, edits); reason != "" {
			return reason
		}
		if anyConflict(p.edits[id], edits) {
			return "conflicts with previously applied edits in " + file.FormatPath("auto", p.fs.BaseDir())
		}
	}
	for id, edits := range byFile {
		p.edits[id] = append(p.edits[id], edits...)
	}
	return ""
}

// render applies the accepted edits, one FileChange per file, sorted by path.
func (p *editPlan) render() ([]FileChange, error) {
	changes := make([]FileChange, 0, len(p.edits))
	for id, edits := range p.edits {
		file := p.fs.Get(id)
		content, err := ApplyToContent(file.Content, edits)
		if err != nil {
			return changes, fmt.Errorf("apply %s: %w", file.Path, err)
		}
		changes = append(changes, FileChange{
			FileID:    id,
			Path:      file.FormatPath("relative", p.fs.BaseDir()),
			EditCount: len(edits),
			Content:   content,
		})
	}
	slices.SortFunc(changes, func(a, b FileChange) int { return cmp.Compare(a.Path, b.Path) })
	return changes, nil
}

func displayPath(fs *source.FileSet, id source.FileID) string {
	if file := fs.Get(id); file != nil {
		return file.FormatPath("auto", fs.BaseDir())
	}
	return ""
}
