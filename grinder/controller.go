package grinder

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/calvinmclean/autogrind"
)

// ErrRunning is returned for operations that are only allowed while the grinder is idle
var ErrRunning = errors.New("grind cycle is running")

// Relay switches the grinder motor contactor. The method set matches machine.Pin.
type Relay interface {
	High()
	Low()
}

// Controller owns the grind cycle state machine and everything it drives. It is not safe for
// concurrent use: exactly one loop calls Tick (directly or through Run).
type Controller struct {
	relay   Relay
	input   *InputReader
	store   *SettingStore
	display *Presenter
	now     func() time.Time
	poll    time.Duration
	logger  *slog.Logger

	state      autogrind.CycleState
	grindCycle uint16
	startTime  time.Time

	// lastShown is the elapsed second currently on the display, so the LCD is only rewritten when it changes
	lastShown int

	// held is the button seen on the previous tick. Buttons act on the tick they go down, so holding one
	// does not repeat it or immediately abort the cycle it just started.
	held autogrind.Button

	// release is an Up/Down press waiting for the key to come back up before it adjusts the setting
	release autogrind.Button
}

// New loads the persisted grind setting, switches the relay off and draws the idle screen
func New(hw Hardware, cfg Config) *Controller {
	cfg = cfg.withDefaults()

	c := &Controller{
		relay:   hw.Relay,
		input:   NewInputReader(hw.Keypad, cfg.ADCBits),
		store:   NewSettingStore(hw.Memory, cfg.StoreAddress, cfg.Logger),
		display: NewPresenter(hw.Screen),
		now:     cfg.Now,
		poll:    cfg.PollInterval,
		logger:  cfg.Logger,
		state:   autogrind.CycleIdle,
		held:    autogrind.ButtonNone,
		release: autogrind.ButtonNone,
	}

	c.grindCycle = autogrind.ClampGrindSeconds(int(c.store.Load()))
	c.relay.Low()

	c.display.ShowStatus(autogrind.StatusReady)
	c.display.ShowDuration(c.grindCycle)
	c.display.ClearElapsed()

	c.logger.Info("loaded grind setting", "seconds", c.grindCycle)

	return c
}

// Start persists the current setting and energizes the grinder
func (c *Controller) Start() error {
	if c.state == autogrind.CycleRunning {
		return ErrRunning
	}

	err := c.store.Save(c.grindCycle)
	if err != nil {
		c.logger.Error("failed to save grind setting", "seconds", c.grindCycle, "error", err)
	}

	c.relay.High()
	c.startTime = c.now()
	c.state = autogrind.CycleRunning
	c.lastShown = 0

	c.display.ShowStatus(autogrind.StatusRunning)
	c.display.ShowElapsed(0)

	c.logger.Info("cycle started", "seconds", c.grindCycle)
	return nil
}

// Stop ends a running cycle early. It does nothing when the grinder is idle.
func (c *Controller) Stop() {
	if c.state != autogrind.CycleRunning {
		return
	}
	elapsed := c.Elapsed()
	c.finish(autogrind.StatusAborted)
	c.logger.Info("cycle stopped", "elapsed", elapsed.String())
}

// Adjust changes the grind setting by delta seconds within the allowed range and shows the result. The
// new value is not persisted until the next cycle starts. Adjusting is refused while running.
func (c *Controller) Adjust(delta int) error {
	if c.state == autogrind.CycleRunning {
		return ErrRunning
	}

	next := autogrind.ClampGrindSeconds(int(c.grindCycle) + delta)
	if next != c.grindCycle {
		c.logger.Info("grind setting changed", "from", c.grindCycle, "to", next)
		c.grindCycle = next
	}
	c.display.ShowDuration(c.grindCycle)

	return nil
}

// Tick samples the keypad once and advances the state machine. It never blocks.
func (c *Controller) Tick() {
	btn := c.input.Read()
	pressed := btn != c.held
	c.held = btn

	if c.state == autogrind.CycleRunning {
		if pressed && (btn == autogrind.ButtonLeft || btn == autogrind.ButtonRight) {
			c.abort(btn)
			return
		}
		c.progress()
		return
	}

	if c.release != autogrind.ButtonNone && btn != c.release {
		delta := 1
		if c.release == autogrind.ButtonDown {
			delta = -1
		}
		c.release = autogrind.ButtonNone
		_ = c.Adjust(delta)
	}

	if !pressed {
		return
	}

	switch btn {
	case autogrind.ButtonRight:
		_ = c.Start()
	case autogrind.ButtonLeft:
		c.Stop()
	case autogrind.ButtonUp, autogrind.ButtonDown:
		c.release = btn
	case autogrind.ButtonSelect, autogrind.ButtonNone:
	}
}

// Run calls Tick every poll interval until ctx is done, then makes sure the grinder is off
func (c *Controller) Run(ctx context.Context) {
	ticker := time.NewTicker(c.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.Stop()
			return
		case <-ticker.C:
			c.Tick()
		}
	}
}

// State returns whether a cycle is running
func (c *Controller) State() autogrind.CycleState {
	return c.state
}

// GrindSeconds returns the configured grind duration
func (c *Controller) GrindSeconds() uint16 {
	return c.grindCycle
}

// Elapsed returns how long the current cycle has been running, or 0 when idle
func (c *Controller) Elapsed() time.Duration {
	if c.state != autogrind.CycleRunning {
		return 0
	}
	return c.now().Sub(c.startTime)
}

// Status is a snapshot of the controller used for debug output
type Status struct {
	State        autogrind.CycleState
	GrindSeconds uint16
	Elapsed      time.Duration
}

func (s Status) String() string {
	return "state=" + s.State.String() + " grind=" + secondsStr(int(s.GrindSeconds)) + " elapsed=" + s.Elapsed.String()
}

// Status returns a snapshot of the current state
func (c *Controller) Status() Status {
	return Status{
		State:        c.state,
		GrindSeconds: c.grindCycle,
		Elapsed:      c.Elapsed(),
	}
}

// progress completes the cycle once the duration has passed, otherwise refreshes the elapsed time
func (c *Controller) progress() {
	elapsed := c.now().Sub(c.startTime)
	if elapsed >= time.Duration(c.grindCycle)*time.Second {
		c.finish(autogrind.StatusReady)
		c.logger.Info("cycle complete", "seconds", c.grindCycle)
		return
	}

	secs := int(elapsed / time.Second)
	if secs != c.lastShown {
		c.lastShown = secs
		c.display.ShowElapsed(secs)
		c.logger.Debug("grinding", "elapsed", secs)
	}
}

func (c *Controller) abort(btn autogrind.Button) {
	elapsed := c.Elapsed()
	c.finish(autogrind.StatusAborted)
	c.logger.Info("cycle aborted", "button", btn.String(), "elapsed", elapsed.String())
}

// finish switches the grinder off and returns to idle
func (c *Controller) finish(status string) {
	c.relay.Low()
	c.state = autogrind.CycleIdle
	c.startTime = time.Time{}
	c.display.ShowStatus(status)
}
