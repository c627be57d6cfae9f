package grinder_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/calvinmclean/autogrind"
	"github.com/calvinmclean/autogrind/grinder"
	"github.com/calvinmclean/autogrind/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const poll = 100 * time.Millisecond

var t0 = time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC)

type harness struct {
	m     *sim.Machine
	mem   *sim.Memory
	clock *sim.Clock
	c     *grinder.Controller
}

// newHarness boots a controller with seconds already persisted, or an erased EEPROM if seconds is 0
func newHarness(t *testing.T, seconds uint16) *harness {
	t.Helper()

	var slot []byte
	if seconds != 0 {
		slot = []byte{byte(seconds), byte(seconds >> 8)}
	}
	mem := memoryWith(t, slot)
	m := sim.NewMachine(mem)
	clock := sim.NewClock(t0)

	cfg := m.Config(poll)
	cfg.Now = clock.Now

	return &harness{m: m, mem: mem, clock: clock, c: grinder.New(m.Hardware(), cfg)}
}

// tick advances the clock by one poll interval and runs the loop body n times
func (h *harness) tick(n int) {
	for range n {
		h.clock.Advance(poll)
		h.c.Tick()
	}
}

// press queues a single-sample press and runs one tick for it plus one for the release
func (h *harness) press(b autogrind.Button) {
	h.m.Keypad.Press(b, 1)
	h.tick(2)
}

func (h *harness) status() string {
	return strings.TrimSpace(h.m.LCD.Line(0)[:8])
}

func (h *harness) elapsed() string {
	return strings.TrimSpace(h.m.LCD.Line(1)[9:])
}

func (h *harness) duration() string {
	return strings.TrimSpace(h.m.LCD.Line(0)[9:])
}

func TestBootScreen(t *testing.T) {
	h := newHarness(t, 0)

	assert.Equal(t, "Ready    360 s  ", h.m.LCD.Line(0))
	assert.Equal(t, strings.Repeat(" ", 16), h.m.LCD.Line(1))
	assert.False(t, h.m.Relay.On())
	assert.Equal(t, autogrind.CycleIdle, h.c.State())
	assert.Equal(t, uint16(360), h.c.GrindSeconds())
}

func TestBootClampsStoredValue(t *testing.T) {
	h := newHarness(t, 2000)
	assert.Equal(t, uint16(1000), h.c.GrindSeconds())
}

func TestNaturalCompletion(t *testing.T) {
	h := newHarness(t, 5)

	var shown []string
	h.m.LCD.OnChange(func(lines [sim.LCDRows]string) {
		v := strings.TrimSpace(lines[1][9:])
		if v != "" && (len(shown) == 0 || shown[len(shown)-1] != v) {
			shown = append(shown, v)
		}
	})

	h.m.Keypad.Press(autogrind.ButtonRight, 1)
	h.c.Tick()
	started := h.clock.Now()

	require.True(t, h.m.Relay.On())
	assert.Equal(t, autogrind.CycleRunning, h.c.State())
	assert.Equal(t, "RUN...", h.status())

	var stoppedAt time.Time
	for range 100 {
		h.tick(1)
		if !h.m.Relay.On() {
			stoppedAt = h.clock.Now()
			break
		}
	}

	require.False(t, stoppedAt.IsZero(), "relay never switched off")
	ran := stoppedAt.Sub(started)
	assert.GreaterOrEqual(t, ran, 5*time.Second)
	assert.Less(t, ran, 5*time.Second+poll)

	assert.Equal(t, []string{"0 s", "1 s", "2 s", "3 s", "4 s"}, shown)
	assert.Equal(t, "Ready", h.status())
	assert.Equal(t, autogrind.CycleIdle, h.c.State())
	assert.Equal(t, time.Duration(0), h.c.Elapsed())
}

func TestAbort(t *testing.T) {
	for _, b := range []autogrind.Button{autogrind.ButtonLeft, autogrind.ButtonRight} {
		t.Run(b.String(), func(t *testing.T) {
			h := newHarness(t, 5)

			h.press(autogrind.ButtonRight)
			require.True(t, h.m.Relay.On())

			h.tick(19)
			assert.Equal(t, 2*time.Second, h.c.Elapsed())

			h.m.Keypad.Press(b, 1)
			h.tick(1)

			assert.False(t, h.m.Relay.On())
			assert.Equal(t, autogrind.CycleIdle, h.c.State())
			assert.Equal(t, "ABORTED", h.status())

			lastElapsed := h.elapsed()
			h.tick(50)
			assert.Equal(t, lastElapsed, h.elapsed())
			assert.Equal(t, "ABORTED", h.status())
			assert.False(t, h.m.Relay.On())
		})
	}
}

func TestHoldingStartDoesNotAbort(t *testing.T) {
	h := newHarness(t, 5)

	h.m.Keypad.Hold(autogrind.ButtonRight)
	h.tick(10)
	assert.True(t, h.m.Relay.On())
	assert.Equal(t, autogrind.CycleRunning, h.c.State())

	h.m.Keypad.Release()
	h.tick(1)
	assert.True(t, h.m.Relay.On())
}

func TestHoldingAbortDoesNotRestart(t *testing.T) {
	h := newHarness(t, 5)

	h.press(autogrind.ButtonRight)
	h.m.Keypad.Hold(autogrind.ButtonRight)
	h.tick(1)
	require.False(t, h.m.Relay.On())

	h.tick(10)
	assert.False(t, h.m.Relay.On())
	assert.Equal(t, autogrind.CycleIdle, h.c.State())
}

func TestSaveOncePerStart(t *testing.T) {
	h := newHarness(t, 0)
	require.Equal(t, 0, h.mem.Writes())

	h.press(autogrind.ButtonUp)
	h.press(autogrind.ButtonUp)
	h.press(autogrind.ButtonDown)
	require.NoError(t, h.c.Adjust(+10))
	assert.Equal(t, 0, h.mem.Writes())

	require.NoError(t, h.c.Start())
	assert.Equal(t, 1, h.mem.Writes())

	assert.ErrorIs(t, h.c.Start(), grinder.ErrRunning)
	assert.Equal(t, 1, h.mem.Writes())

	buf := make([]byte, 2)
	_, err := h.mem.ReadAt(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{byte(371 & 0xFF), byte(371 >> 8)}, buf)

	h.c.Stop()
	require.NoError(t, h.c.Start())
	assert.Equal(t, 2, h.mem.Writes())
}

func TestAdjustOnRelease(t *testing.T) {
	h := newHarness(t, 0)

	h.m.Keypad.Hold(autogrind.ButtonUp)
	h.tick(5)
	assert.Equal(t, uint16(360), h.c.GrindSeconds())

	h.m.Keypad.Release()
	h.tick(1)
	assert.Equal(t, uint16(361), h.c.GrindSeconds())
	assert.Equal(t, "361 s", h.duration())

	h.m.Keypad.Hold(autogrind.ButtonDown)
	h.tick(3)
	h.m.Keypad.Release()
	h.tick(1)
	assert.Equal(t, uint16(360), h.c.GrindSeconds())
	assert.Equal(t, "360 s", h.duration())
}

func TestAdjustClamps(t *testing.T) {
	t.Run("Cap", func(t *testing.T) {
		h := newHarness(t, 999)
		for range 5 {
			require.NoError(t, h.c.Adjust(+1))
		}
		assert.Equal(t, uint16(1000), h.c.GrindSeconds())
		assert.Equal(t, "1000 s", h.duration())
	})

	t.Run("Floor", func(t *testing.T) {
		h := newHarness(t, 2)
		for range 5 {
			h.press(autogrind.ButtonDown)
		}
		assert.Equal(t, uint16(1), h.c.GrindSeconds())
		assert.Equal(t, "1 s", h.duration())
	})
}

func TestAdjustWhileRunning(t *testing.T) {
	h := newHarness(t, 30)
	require.NoError(t, h.c.Start())

	assert.ErrorIs(t, h.c.Adjust(+1), grinder.ErrRunning)

	h.press(autogrind.ButtonUp)
	h.press(autogrind.ButtonDown)
	assert.Equal(t, uint16(30), h.c.GrindSeconds())
	assert.Equal(t, autogrind.CycleRunning, h.c.State())
}

func TestStopIdempotent(t *testing.T) {
	h := newHarness(t, 0)
	switches := h.m.Relay.Switches()

	h.c.Stop()
	h.press(autogrind.ButtonLeft)

	assert.Equal(t, switches, h.m.Relay.Switches())
	assert.Equal(t, autogrind.CycleIdle, h.c.State())
	assert.Equal(t, "Ready", h.status())
}

func TestStopWhileRunning(t *testing.T) {
	h := newHarness(t, 0)
	require.NoError(t, h.c.Start())
	h.tick(15)

	h.c.Stop()
	assert.False(t, h.m.Relay.On())
	assert.Equal(t, autogrind.CycleIdle, h.c.State())
	assert.Equal(t, "ABORTED", h.status())
}

func TestSelectIgnored(t *testing.T) {
	h := newHarness(t, 0)
	h.press(autogrind.ButtonSelect)
	assert.Equal(t, autogrind.CycleIdle, h.c.State())
	assert.Equal(t, uint16(360), h.c.GrindSeconds())
}

func TestStatusString(t *testing.T) {
	h := newHarness(t, 10)
	assert.Equal(t, "state=Idle grind=10 s elapsed=0s", h.c.Status().String())

	require.NoError(t, h.c.Start())
	h.tick(25)
	assert.Equal(t, "state=Running grind=10 s elapsed=2.5s", h.c.Status().String())
}

func TestRunStopsGrinderOnCancel(t *testing.T) {
	m := sim.NewMachine(nil)
	c := grinder.New(m.Hardware(), m.Config(time.Millisecond))
	require.NoError(t, c.Start())
	require.True(t, m.Relay.On())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	assert.False(t, m.Relay.On())
	assert.Equal(t, autogrind.CycleIdle, c.State())
}
