package grinder

import (
	"strconv"
)

// Screen is a character LCD. The method set matches tinygo.org/x/drivers/hd44780i2c.Device.
type Screen interface {
	SetCursor(x, y uint8)
	Print(data []byte)
}

// Field positions on the 16x2 display. Each field is always written at full width so shorter values
// overwrite whatever a longer previous value left behind.
const (
	statusCol, statusRow, statusWidth       = 0, 0, 8
	durationCol, durationRow, durationWidth = 9, 0, 7
	elapsedCol, elapsedRow, elapsedWidth    = 9, 1, 7
)

// Presenter renders grinder state onto a Screen
type Presenter struct {
	screen Screen
}

// NewPresenter draws onto screen
func NewPresenter(screen Screen) *Presenter {
	return &Presenter{screen: screen}
}

// ShowStatus writes the mode word in the top-left corner
func (p *Presenter) ShowStatus(text string) {
	p.write(statusCol, statusRow, statusWidth, text)
}

// ShowDuration writes the configured grind duration
func (p *Presenter) ShowDuration(seconds uint16) {
	p.write(durationCol, durationRow, durationWidth, secondsStr(int(seconds)))
}

// ShowElapsed writes the running cycle's elapsed seconds
func (p *Presenter) ShowElapsed(seconds int) {
	p.write(elapsedCol, elapsedRow, elapsedWidth, secondsStr(seconds))
}

// ClearElapsed blanks the elapsed field
func (p *Presenter) ClearElapsed() {
	p.write(elapsedCol, elapsedRow, elapsedWidth, "")
}

func (p *Presenter) write(x, y uint8, width int, text string) {
	p.screen.SetCursor(x, y)
	p.screen.Print(pad(text, width))
}

// pad truncates or space-fills text to exactly width bytes
func pad(text string, width int) []byte {
	out := make([]byte, width)
	n := copy(out, text)
	for i := n; i < width; i++ {
		out[i] = ' '
	}
	return out
}

// secondsStr formats a value like "360 s"
func secondsStr(s int) string {
	return strconv.Itoa(s) + " s"
}
