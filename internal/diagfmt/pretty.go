package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"emptylines/internal/diag"
	"emptylines/internal/fix"
	"emptylines/internal/source"
)

// сколько строк основного span показываем, остальное сворачиваем
const maxSpanLines = 6

type palette struct {
	sev    map[diag.Severity]*color.Color
	code   *color.Color
	gutter *color.Color
	caret  *color.Color
	note   *color.Color
	fix    *color.Color
	minus  *color.Color
	plus   *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   mk(color.FgRed, color.Bold),
			diag.SevWarning: mk(color.FgYellow, color.Bold),
			diag.SevInfo:    mk(color.FgCyan, color.Bold),
		},
		code:   mk(color.Bold),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgMagenta, color.Bold),
		note:   mk(color.FgCyan),
		fix:    mk(color.FgGreen),
		minus:  mk(color.FgRed),
		plus:   mk(color.FgGreen),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	if c, ok := p.sev[sev]; ok {
		return c
	}
	return p.code
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	file := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)
	path := formatPath(file, fs, opts.PathMode)

	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		path, start.Line, start.Col,
		p.severity(d.Severity).Sprint(d.Severity.String()),
		p.code.Sprint(d.Code.ID()),
		d.Message,
	)

	if file != nil && len(file.Content) > 0 {
		writeSnippet(w, file, start, end, opts, p)
	}

	if opts.ShowNotes {
		for _, note := range d.Notes {
			msg := note.Msg
			if note.Span != d.Primary && note.Span.File == d.Primary.File {
				ns, _ := fs.Resolve(note.Span)
				msg = fmt.Sprintf("%s (line %d)", msg, ns.Line)
			}
			fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("= note:"), msg)
		}
	}

	if !opts.ShowFixes && !opts.ShowPreview {
		return
	}
	for idx, f := range d.Fixes {
		if len(f.Edits) == 0 {
			continue
		}
		fmt.Fprintf(w, "  %s %s [%s] (%s)\n", p.fix.Sprint("= fix:"), f.Title, fix.FixID(d, idx), f.Applicability)
		if !opts.ShowPreview {
			continue
		}
		for _, edit := range f.Edits {
			preview, err := previewEdit(fs, edit)
			if err != nil {
				continue
			}
			for _, line := range preview.before {
				fmt.Fprintf(w, "    %s\n", p.minus.Sprint("- "+visible(line)))
			}
			for _, line := range preview.after {
				fmt.Fprintf(w, "    %s\n", p.plus.Sprint("+ "+visible(line)))
			}
		}
	}
}

// writeSnippet prints the lines covered by the span with a gutter, an
// underline and opts.Context surrounding lines.
func writeSnippet(w io.Writer, file *source.File, start, end source.LineCol, opts PrettyOpts, p palette) {
	last := end.Line
	// span, кончающийся в начале строки, эту строку не захватывает
	if last > start.Line && end.Col == 1 {
		last--
	}
	total := file.LineCount()
	if last > total {
		last = total
	}
	if start.Line > last {
		return
	}

	ctx := uint32(0)
	if opts.Context > 0 {
		ctx = uint32(opts.Context)
	}
	from := uint32(1)
	if start.Line > ctx {
		from = start.Line - ctx
	}
	to := min(last+ctx, total)

	gutterWidth := len(strconv.FormatUint(uint64(to), 10))
	pad := strings.Repeat(" ", gutterWidth)
	fmt.Fprintf(w, "%s %s\n", pad, p.gutter.Sprint("|"))

	for line := from; line <= to; line++ {
		inSpan := line >= start.Line && line <= last
		if inSpan && last-start.Line+1 > maxSpanLines && line == start.Line+maxSpanLines-1 {
			fmt.Fprintf(w, "%s %s %s\n", pad, p.gutter.Sprint("|"), p.gutter.Sprintf("... %d more lines", last-line))
			line = last - 1
			continue
		}

		text := expandTabs(file.GetLine(line))
		fmt.Fprintf(w, "%s %s %s\n",
			p.gutter.Sprintf("%*d", gutterWidth, line),
			p.gutter.Sprint("|"),
			truncate(text, opts.Width),
		)
		if !inSpan {
			continue
		}

		raw := file.GetLine(line)
		fromCol, toCol := uint32(1), uint32(len(raw))+1
		if line == start.Line {
			fromCol = start.Col
		}
		if line == end.Line {
			toCol = end.Col
		}
		fmt.Fprintf(w, "%s %s %s\n", pad, p.gutter.Sprint("|"), p.caret.Sprint(underline(raw, fromCol, toCol)))
	}
}

// underline builds "^~~~" under raw for the 1-based byte columns [from, to).
func underline(raw string, from, to uint32) string {
	n := uint32(len(raw))
	from = min(max(from, 1), n+1)
	to = min(max(to, from), n+1)

	lead := runewidth.StringWidth(expandTabs(raw[:from-1]))
	width := runewidth.StringWidth(expandTabs(raw[from-1 : to-1]))
	if width == 0 {
		width = 1
	}
	return strings.Repeat(" ", lead) + "^" + strings.Repeat("~", width-1)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

func truncate(s string, width uint8) string {
	if width == 0 {
		return s
	}
	return runewidth.Truncate(s, int(width), "…")
}

// visible makes whitespace-only preview lines readable.
func visible(s string) string {
	if strings.TrimSpace(s) == "" {
		return strings.ReplaceAll(strings.ReplaceAll(s, "\t", "→"), " ", "·")
	}
	return s
}

// PrettySummary prints "N errors, M warnings" for bag, or nothing for an
// empty bag.
func PrettySummary(w io.Writer, bag *diag.Bag, useColor bool) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	counts := map[diag.Severity]int{}
	for _, d := range bag.Items() {
		counts[d.Severity]++
	}
	p := newPalette(useColor)
	var parts []string
	for _, sev := range []diag.Severity{diag.SevError, diag.SevWarning, diag.SevInfo} {
		if n := counts[sev]; n > 0 {
			parts = append(parts, p.severity(sev).Sprint(countNoun(n, strings.ToLower(sev.String()))))
		}
	}
	fmt.Fprintf(w, "\n%s\n", strings.Join(parts, ", "))
}

func countNoun(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
