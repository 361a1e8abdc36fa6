// Package actions implements the dashboard's device action buttons.
//
// Actions are simulated: each one announces itself with an info toast and
// reports success after a fixed delay. Nothing is sent to the device.
package actions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/androidlens/internal/logging"
	"github.com/muurk/androidlens/internal/metrics"
	"github.com/muurk/androidlens/internal/notify"
)

// DefaultDelay separates an action's start and completion toasts
const DefaultDelay = 2 * time.Second

// Action names
const (
	Reboot   = "reboot"
	Shutdown = "shutdown"
	Arrive   = "arrive"
)

// Definition describes one action
type Definition struct {
	Name    string `json:"name"`
	Label   string `json:"label"`
	Icon    string `json:"icon"`
	Started string `json:"-"`
	Done    string `json:"-"`
}

// Definitions lists the actions in button order
var Definitions = []Definition{
	{
		Name:    Reboot,
		Label:   "Reboot",
		Icon:    "fa-redo",
		Started: "Rebooting device...",
		Done:    "Device rebooted successfully",
	},
	{
		Name:    Shutdown,
		Label:   "Shutdown",
		Icon:    "fa-power-off",
		Started: "Shutting down device...",
		Done:    "Device shut down successfully",
	},
	{
		Name:    Arrive,
		Label:   "Arrive",
		Icon:    "fa-map-marker-alt",
		Started: "Processing arrive command...",
		Done:    "Device arrived successfully",
	},
}

// Lookup returns the action named name
func Lookup(name string) (Definition, bool) {
	for _, d := range Definitions {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

// Runner executes actions against a notifier
type Runner struct {
	notifier notify.Notifier
	metrics  metrics.Collector
	delay    time.Duration
	wg       sync.WaitGroup
}

// NewRunner creates a runner. A zero delay selects DefaultDelay.
func NewRunner(n notify.Notifier, c metrics.Collector, delay time.Duration) *Runner {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if c == nil {
		c = metrics.Noop()
	}
	return &Runner{notifier: n, metrics: c, delay: delay}
}

// Start shows the action's start toast and schedules its completion toast.
// It returns immediately. Cancelling ctx before the delay elapses drops the
// completion toast.
func (r *Runner) Start(ctx context.Context, name string) error {
	def, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("unknown action %q", name)
	}

	logging.Info("Device action requested", zap.String("action", name))
	r.metrics.IncAction(name)
	r.notifier.Show(def.Started, notify.KindInfo)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		timer := time.NewTimer(r.delay)
		defer timer.Stop()

		select {
		case <-timer.C:
			r.notifier.Show(def.Done, notify.KindSuccess)
		case <-ctx.Done():
		}
	}()

	return nil
}

// Wait blocks until every started action has finished
func (r *Runner) Wait() {
	r.wg.Wait()
}
