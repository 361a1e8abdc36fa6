package actions

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/muurk/androidlens/internal/notify"
)

type recorder struct {
	mu    sync.Mutex
	shown []notify.Toast
}

func (r *recorder) Show(message string, kind notify.Kind) notify.Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := notify.Toast{Message: message, Kind: kind}
	r.shown = append(r.shown, t)
	return t
}

func (r *recorder) toasts() []notify.Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Toast(nil), r.shown...)
}

func TestRunner_Start(t *testing.T) {
	tests := []struct {
		action  string
		started string
		done    string
	}{
		{Reboot, "Rebooting device...", "Device rebooted successfully"},
		{Shutdown, "Shutting down device...", "Device shut down successfully"},
		{Arrive, "Processing arrive command...", "Device arrived successfully"},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			rec := &recorder{}
			r := NewRunner(rec, nil, 10*time.Millisecond)

			if err := r.Start(context.Background(), tt.action); err != nil {
				t.Fatalf("Start() error = %v", err)
			}

			first := rec.toasts()
			if len(first) != 1 || first[0].Message != tt.started || first[0].Kind != notify.KindInfo {
				t.Fatalf("immediate toasts = %+v", first)
			}

			r.Wait()

			all := rec.toasts()
			if len(all) != 2 {
				t.Fatalf("toasts after delay = %+v", all)
			}
			if all[1].Message != tt.done || all[1].Kind != notify.KindSuccess {
				t.Errorf("completion toast = %+v", all[1])
			}
		})
	}
}

func TestRunner_UnknownAction(t *testing.T) {
	rec := &recorder{}
	r := NewRunner(rec, nil, time.Millisecond)

	if err := r.Start(context.Background(), "selfdestruct"); err == nil {
		t.Error("unknown action should fail")
	}
	if len(rec.toasts()) != 0 {
		t.Error("unknown action must not show toasts")
	}
}

func TestRunner_CancelDropsCompletion(t *testing.T) {
	rec := &recorder{}
	r := NewRunner(rec, nil, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	if err := r.Start(ctx, Reboot); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	cancel()
	r.Wait()

	if n := len(rec.toasts()); n != 1 {
		t.Errorf("got %d toasts, want only the start toast", n)
	}
}

func TestNewRunner_DefaultDelay(t *testing.T) {
	r := NewRunner(&recorder{}, nil, 0)
	if r.delay != DefaultDelay {
		t.Errorf("delay = %v, want %v", r.delay, DefaultDelay)
	}
}
