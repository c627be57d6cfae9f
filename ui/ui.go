package ui

import (
	"context"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/calvinmclean/autogrind"
	"github.com/calvinmclean/autogrind/sim"
)

var (
	lcdBackground = color.RGBA{R: 20, G: 60, B: 200, A: 255}
	lcdForeground = color.RGBA{R: 230, G: 240, B: 255, A: 255}
	relayOff      = color.RGBA{R: 80, G: 80, B: 80, A: 255}
	relayOn       = color.RGBA{R: 0, G: 200, B: 60, A: 255}
)

// GrinderUI shows a simulated grinder: the LCD, the keypad and the relay output
type GrinderUI struct {
	machine    *sim.Machine
	pressTicks int
}

// NewGrinderUI drives m. Each button click holds the key for pressTicks keypad samples.
func NewGrinderUI(m *sim.Machine, pressTicks int) *GrinderUI {
	return &GrinderUI{machine: m, pressTicks: pressTicks}
}

// Run shows the window and blocks until it is closed or ctx is done
func (ui *GrinderUI) Run(ctx context.Context) {
	application := app.New()
	window := application.NewWindow("Auto Grind")

	lcd := ui.createLCD()
	relay, runTimer := ui.createRelayIndicator()
	keypad := ui.createKeypad()

	stop := make(chan struct{})
	defer close(stop)
	runTimer.Go(stop)

	go func() {
		<-ctx.Done()
		fyne.Do(func() {
			application.Quit()
		})
	}()

	window.SetContent(container.NewVBox(
		lcd,
		relay,
		keypad,
	))
	window.Resize(fyne.NewSize(320, 260))
	window.ShowAndRun()
}

func (ui *GrinderUI) createLCD() fyne.CanvasObject {
	var rows [sim.LCDRows]*canvas.Text
	current := ui.machine.LCD.Lines()
	for i := range rows {
		rows[i] = canvas.NewText(current[i], lcdForeground)
		rows[i].TextStyle = fyne.TextStyle{Monospace: true}
		rows[i].TextSize = 22
	}

	ui.machine.LCD.OnChange(func(lines [sim.LCDRows]string) {
		fyne.Do(func() {
			for i, row := range rows {
				row.Text = lines[i]
				row.Refresh()
			}
		})
	})

	return container.NewStack(
		canvas.NewRectangle(lcdBackground),
		container.NewPadded(container.NewVBox(rows[0], rows[1])),
	)
}

func (ui *GrinderUI) createRelayIndicator() (fyne.CanvasObject, *timer) {
	light := canvas.NewCircle(relayOff)
	light.Resize(fyne.NewSize(16, 16))
	label := widget.NewLabel("Grinder off")
	runTimer := newTimer()

	ui.machine.Relay.OnChange(func(on bool) {
		now := time.Now()
		if on {
			runTimer.Start(now)
		} else {
			runTimer.Stop(now)
		}

		fyne.Do(func() {
			if on {
				light.FillColor = relayOn
				label.SetText("Grinder on")
			} else {
				light.FillColor = relayOff
				label.SetText("Grinder off")
			}
			light.Refresh()
		})
	})

	return container.NewHBox(
		container.NewGridWrap(fyne.NewSize(16, 16), light),
		label,
		layout.NewSpacer(),
		container.NewPadded(runTimer.text),
	), runTimer
}

// createKeypad lays the five shield buttons out like a d-pad with Select in the middle
func (ui *GrinderUI) createKeypad() fyne.CanvasObject {
	button := func(b autogrind.Button) fyne.CanvasObject {
		return widget.NewButton(b.String(), func() {
			ui.machine.Keypad.Press(b, ui.pressTicks)
		})
	}

	return container.NewGridWithColumns(3,
		layout.NewSpacer(), button(autogrind.ButtonUp), layout.NewSpacer(),
		button(autogrind.ButtonLeft), button(autogrind.ButtonSelect), button(autogrind.ButtonRight),
		layout.NewSpacer(), button(autogrind.ButtonDown), layout.NewSpacer(),
	)
}
