package sim

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// EEPROMSize is the EEPROM size of an ATmega328P
const EEPROMSize = 1024

var errOutOfBounds = errors.New("offset out of bounds")

// Memory is an in-memory EEPROM image. New images read back as erased (0xFF).
type Memory struct {
	mtx    sync.Mutex
	data   []byte
	writes int
}

// NewMemory returns an erased image of the given size
func NewMemory(size int) *Memory {
	return &Memory{data: bytes.Repeat([]byte{0xFF}, size)}
}

// ReadAt implements io.ReaderAt
func (m *Memory) ReadAt(p []byte, off int64) (int, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if off < 0 || off >= int64(len(m.data)) {
		return 0, errOutOfBounds
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt implements io.WriterAt
func (m *Memory) WriteAt(p []byte, off int64) (int, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if off < 0 || off+int64(len(p)) > int64(len(m.data)) {
		return 0, errOutOfBounds
	}
	m.writes++
	return copy(m.data[off:], p), nil
}

// Writes counts WriteAt calls, which is what wears real EEPROM
func (m *Memory) Writes() int {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.writes
}

// FileMemory keeps the EEPROM image in a file so the setting survives simulator restarts
type FileMemory struct {
	*os.File
}

// OpenFileMemory opens the image at path, creating an erased one of the given size if it does not exist
func OpenFileMemory(path string, size int) (*FileMemory, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err == nil {
		return &FileMemory{f}, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error opening memory image: %w", err)
	}

	f, err = os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("error creating memory image: %w", err)
	}

	_, err = f.Write(bytes.Repeat([]byte{0xFF}, size))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error initializing memory image: %w", err)
	}

	return &FileMemory{f}, nil
}
