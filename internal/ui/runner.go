package ui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"emptylines/internal/pipeline"
)

// RunWithProgress runs work in the background while rendering its progress
// events to out. work must not retain the sink after returning.
func RunWithProgress[T any](out io.Writer, title string, files []string, work func(pipeline.ProgressSink) (T, error)) (T, error) {
	events := make(chan pipeline.Event, 256)
	type outcome struct {
		result T
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		res, err := work(pipeline.ChannelSink{Ch: events})
		close(events)
		done <- outcome{result: res, err: err}
	}()

	model := NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil))
	_, uiErr := program.Run()

	// UI мог выйти раньше (Ctrl+C): дочитываем события, чтобы воркеры не встали
	go func() {
		for range events {
		}
	}()

	res := <-done
	if uiErr != nil {
		return res.result, uiErr
	}
	return res.result, res.err
}
