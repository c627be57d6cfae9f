package sim

import "sync"

const (
	LCDColumns = 16
	LCDRows    = 2
)

// LCD is a 16x2 character buffer with the same cursor/print behavior as an HD44780 that does not wrap
type LCD struct {
	mtx   sync.Mutex
	cells [LCDRows][LCDColumns]byte
	x, y  uint8

	onChange func(lines [LCDRows]string)
}

// NewLCD returns a blank display
func NewLCD() *LCD {
	l := &LCD{}
	for r := range l.cells {
		for c := range l.cells[r] {
			l.cells[r][c] = ' '
		}
	}
	return l
}

// OnChange registers f to be called with the new contents after every Print
func (l *LCD) OnChange(f func(lines [LCDRows]string)) {
	l.mtx.Lock()
	l.onChange = f
	l.mtx.Unlock()
}

// SetCursor moves the write position to column x of row y
func (l *LCD) SetCursor(x, y uint8) {
	l.mtx.Lock()
	l.x, l.y = x, y
	l.mtx.Unlock()
}

// Print writes data at the cursor. Characters past the end of the row are dropped.
func (l *LCD) Print(data []byte) {
	l.mtx.Lock()
	if int(l.y) < LCDRows {
		for _, b := range data {
			if int(l.x) >= LCDColumns {
				break
			}
			l.cells[l.y][l.x] = b
			l.x++
		}
	}
	lines := l.lines()
	f := l.onChange
	l.mtx.Unlock()

	if f != nil {
		f(lines)
	}
}

// Lines returns the current contents of both rows
func (l *LCD) Lines() [LCDRows]string {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return l.lines()
}

// Line returns row y
func (l *LCD) Line(y int) string {
	return l.Lines()[y]
}

func (l *LCD) lines() [LCDRows]string {
	var out [LCDRows]string
	for r := range l.cells {
		out[r] = string(l.cells[r][:])
	}
	return out
}
