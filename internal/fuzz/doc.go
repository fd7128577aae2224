// Package fuzztests houses Go fuzz harnesses that push arbitrary bytes
// through the lint and fix pipeline (source -> tree-sitter facts -> rules ->
// fixer). Its goal is to guard against panics, invalid spans and fix loops
// that never settle.
//
// Назначение: прогонять LintContent и FixContent на произвольных входах.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/driver, internal/config, internal/rules/builtin,
// internal/testkit.

package fuzztests
