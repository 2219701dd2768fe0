package mapper

import "fmt"

// Mapper interface for different mappers
type Mapper interface {
	ReadPRG(addr uint16) uint8
	WritePRG(addr uint16, value uint8)
	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, value uint8)
	Step()
	IsIRQPending() bool
	ClearIRQ()
}

// CartridgeData contains cartridge data for mappers
type CartridgeData struct {
	PRGROM []uint8
	CHRROM []uint8
	PRGRAM []uint8
	CHRRAM []uint8
}

// NewMapper creates a new mapper instance. Only mapper 0 (NROM) is
// supported: it's the only mapper original_source's cartridge.rs (and
// any spec.md-testable ROM) exercises, so the teacher's mappers 1-4
// were trimmed rather than carried as unexercised bulk (see DESIGN.md).
func NewMapper(mapperNumber uint8, data *CartridgeData) (Mapper, error) {
	switch mapperNumber {
	case 0:
		return NewMapper0(data), nil
	default:
		return nil, fmt.Errorf("unsupported mapper: %d", mapperNumber)
	}
}