package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the dashboard full-screen, refreshing device data every
// interval, until the user quits or ctx is done.
func Run(ctx context.Context, opts Options, interval time.Duration) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := New(ctx, opts)

	done := make(chan struct{})
	go func() {
		defer close(done)
		opts.Loader.Run(ctx, interval)
	}()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()

	cancel()
	<-done
	opts.Actions.Wait()

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
