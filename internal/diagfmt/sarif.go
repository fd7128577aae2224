package diagfmt

import (
	"encoding/json"
	"io"
	"path/filepath"
	"sort"

	"emptylines/internal/diag"
	"emptylines/internal/fix"
	"emptylines/internal/source"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
	Related   []sarifLocation `json:"relatedLocations,omitempty"`
	Fixes     []sarifFix      `json:"fixes,omitempty"`
}

type sarifLocation struct {
	ID       int           `json:"id,omitempty"`
	Physical sarifPhysical `json:"physicalLocation"`
	Message  *sarifMessage `json:"message,omitempty"`
}

type sarifPhysical struct {
	Artifact sarifArtifact `json:"artifactLocation"`
	Region   sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
	ByteOffset  uint32 `json:"byteOffset"`
	ByteLength  uint32 `json:"byteLength"`
}

type sarifFix struct {
	Description sarifMessage          `json:"description"`
	Changes     []sarifArtifactChange `json:"artifactChanges"`
}

type sarifArtifactChange struct {
	Artifact     sarifArtifact      `json:"artifactLocation"`
	Replacements []sarifReplacement `json:"replacements"`
}

type sarifReplacement struct {
	Deleted  sarifRegion   `json:"deletedRegion"`
	Inserted *sarifContent `json:"insertedContent,omitempty"`
}

type sarifContent struct {
	Text string `json:"text"`
}

func sarifLevel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

func sarifRegionFor(fs *source.FileSet, span source.Span) sarifRegion {
	start, end := fs.Resolve(span)
	return sarifRegion{
		StartLine:   start.Line,
		StartColumn: start.Col,
		EndLine:     end.Line,
		EndColumn:   end.Col,
		ByteOffset:  span.Start,
		ByteLength:  span.Len(),
	}
}

// Sarif форматирует диагностики в SARIF формат (v2.1.0)
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) error {
	uri := func(id source.FileID) string {
		return filepath.ToSlash(formatPath(fs.Get(id), fs, meta.PathMode))
	}

	var items []*diag.Diagnostic
	if bag != nil {
		items = bag.Items()
	}

	// правила - по одному на код, в стабильном порядке
	ruleIndex := make(map[diag.Code]int)
	var codes []diag.Code
	for _, d := range items {
		if _, ok := ruleIndex[d.Code]; !ok {
			ruleIndex[d.Code] = 0
			codes = append(codes, d.Code)
		}
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	rules := make([]sarifRule, len(codes))
	for i, code := range codes {
		ruleIndex[code] = i
		rules[i] = sarifRule{ID: code.ID(), ShortDescription: sarifMessage{Text: code.Title()}}
	}

	results := make([]sarifResult, 0, len(items))
	hasErrors := false
	for _, d := range items {
		if d.Severity == diag.SevError {
			hasErrors = true
		}
		res := sarifResult{
			RuleID:    d.Code.ID(),
			RuleIndex: ruleIndex[d.Code],
			Level:     sarifLevel(d.Severity),
			Message:   sarifMessage{Text: d.Message},
			Locations: []sarifLocation{{
				Physical: sarifPhysical{
					Artifact: sarifArtifact{URI: uri(d.Primary.File)},
					Region:   sarifRegionFor(fs, d.Primary),
				},
			}},
		}
		for i, note := range d.Notes {
			res.Related = append(res.Related, sarifLocation{
				ID: i + 1,
				Physical: sarifPhysical{
					Artifact: sarifArtifact{URI: uri(note.Span.File)},
					Region:   sarifRegionFor(fs, note.Span),
				},
				Message: &sarifMessage{Text: note.Msg},
			})
		}
		for idx, f := range d.Fixes {
			if len(f.Edits) == 0 {
				continue
			}
			sf := sarifFix{Description: sarifMessage{Text: f.Title + " [" + fix.FixID(d, idx) + "]"}}
			byFile := make(map[source.FileID]int)
			for _, edit := range f.Edits {
				pos, ok := byFile[edit.Span.File]
				if !ok {
					pos = len(sf.Changes)
					byFile[edit.Span.File] = pos
					sf.Changes = append(sf.Changes, sarifArtifactChange{Artifact: sarifArtifact{URI: uri(edit.Span.File)}})
				}
				rep := sarifReplacement{Deleted: sarifRegionFor(fs, edit.Span)}
				if edit.NewText != "" {
					rep.Inserted = &sarifContent{Text: edit.NewText}
				}
				sf.Changes[pos].Replacements = append(sf.Changes[pos].Replacements, rep)
			}
			res.Fixes = append(res.Fixes, sf)
		}
		results = append(results, res)
	}

	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:    meta.ToolName,
			Version: meta.ToolVersion,
			Rules:   rules,
		}},
		Results: results,
	}
	if len(meta.InvocationArgs) > 0 {
		run.Invocations = []sarifInvocation{{Arguments: meta.InvocationArgs, ExecutionSuccessful: !hasErrors}}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(sarifLog{Version: sarifVersion, Schema: sarifSchema, Runs: []sarifRun{run}})
}
