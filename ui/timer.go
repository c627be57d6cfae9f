package ui

import (
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

// timer shows how long the grinder relay has been on
type timer struct {
	startTime time.Time
	running   bool
	mtx       *sync.Mutex
	text      *canvas.Text
}

func newTimer() *timer {
	text := canvas.NewText(formatElapsed(0), nil)
	text.TextStyle = fyne.TextStyle{Monospace: true}
	return &timer{
		mtx:  &sync.Mutex{},
		text: text,
	}
}

func (t *timer) Start(start time.Time) {
	t.mtx.Lock()
	t.startTime = start
	t.running = true
	t.mtx.Unlock()
}

// Stop freezes the display at the final run time
func (t *timer) Stop(end time.Time) {
	t.mtx.Lock()
	elapsed := end.Sub(t.startTime)
	t.running = false
	t.mtx.Unlock()

	fyne.Do(func() {
		t.text.Text = formatElapsed(elapsed)
		t.text.Refresh()
	})
}

// Go refreshes the display while running until stop is closed
func (t *timer) Go(stop <-chan struct{}) {
	ticker := time.NewTicker(64 * time.Millisecond)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
			}

			t.mtx.Lock()
			running, start := t.running, t.startTime
			t.mtx.Unlock()
			if !running {
				continue
			}

			fyne.Do(func() {
				t.text.Text = formatElapsed(time.Since(start))
				t.text.Refresh()
			})
		}
	}()
}

func formatElapsed(elapsed time.Duration) string {
	minutes := int(elapsed.Minutes())
	seconds := int(elapsed.Seconds()) % 60
	millis := int(elapsed.Milliseconds()) % 1000
	return fmt.Sprintf("%02d:%02d.%03d", minutes, seconds, millis)
}
