package grinder

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/calvinmclean/autogrind"
)

// ErrOutOfRange is returned when saving a duration outside the allowed grind range
var ErrOutOfRange = errors.New("grind duration out of range")

// Memory is byte-addressable non-volatile storage (EEPROM, flash, or a file)
type Memory interface {
	io.ReaderAt
	io.WriterAt
}

// SettingStore persists the grind duration in a single 2-byte little-endian slot
type SettingStore struct {
	mem    Memory
	addr   int64
	logger *slog.Logger
}

// NewSettingStore uses the slot at addr in mem
func NewSettingStore(mem Memory, addr int64, logger *slog.Logger) *SettingStore {
	if logger == nil {
		logger = discardLogger()
	}
	return &SettingStore{mem: mem, addr: addr, logger: logger}
}

// Load returns the saved duration. Uninitialized (0xFFFF), zero, or unreadable slots produce the default.
func (s *SettingStore) Load() uint16 {
	var buf [2]byte
	_, err := s.mem.ReadAt(buf[:], s.addr)
	if err != nil {
		s.logger.Warn("unable to read grind setting, using default", "error", err)
		return autogrind.DefaultGrindSeconds
	}

	v := binary.LittleEndian.Uint16(buf[:])
	if v == autogrind.UnsetGrindSeconds || v == 0 {
		return autogrind.DefaultGrindSeconds
	}
	return v
}

// Save writes seconds to the slot. Callers should only save when a cycle starts to limit wear.
func (s *SettingStore) Save(seconds uint16) error {
	if seconds < autogrind.MinGrindSeconds || seconds > autogrind.MaxGrindSeconds {
		return fmt.Errorf("%w: %d", ErrOutOfRange, seconds)
	}

	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], seconds)
	_, err := s.mem.WriteAt(buf[:], s.addr)
	return err
}
