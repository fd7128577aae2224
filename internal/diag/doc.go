// Package diag defines the diagnostic model shared by all lint rules.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture findings
//     produced by rules (empty-lines, no-relative-parent-imports) and by the
//     driver itself (I/O and parse failures).
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//   - Model fix suggestions as structured edits that the driver or CLI can
//     preview and optionally apply.
//
// # Scope
//
// Package diag does not perform any formatting, IO, CLI integration, or
// interactive behaviour. Rendering responsibilities live in internal/diagfmt,
// whereas application of fixes lives in internal/fix.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the issue.
//   - Notes – optional secondary spans/messages for additional context.
//   - Fixes – optional Fix records describing how to address the problem.
//
// # Fix suggestions
//
// Fix is data only: a title, a kind, an applicability level and a list of
// TextEdit values (span + replacement). A diagnostic without fixes is still a
// complete finding; rules that cannot compute a safe edit simply omit it.
//
// # Emitting diagnostics
//
// Rules use a diag.Reporter to decouple emission from storage, typically via
// NewReportBuilder (or ReportError) and its chained methods. diag.BagReporter
// aggregates diagnostics into a Bag, which supports sorting, deduplication and
// filtering.
package diag
