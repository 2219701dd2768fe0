package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hirokazu-sato/nesgo/pkg/cartridge"
	"github.com/hirokazu-sato/nesgo/pkg/logger"
	"github.com/hirokazu-sato/nesgo/pkg/nes"
)

// loadROM opens and parses an iNES file, logging the header summary the
// way the teacher's main.go did on every startup.
func loadROM(path string) (*cartridge.Cartridge, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("nesgo: open %s: %w", path, err)
	}
	defer file.Close()

	cart, err := cartridge.LoadFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("nesgo: load %s: %w", path, err)
	}

	mapperNumber := (cart.Header.Flags6 >> 4) | (cart.Header.Flags7 & 0xF0)
	logger.LogInfo("loaded ROM: %s", filepath.Base(path))
	logger.LogInfo("mapper: %d", mapperNumber)
	logger.LogInfo("PRG ROM: %d KB", len(cart.PRGROM)/1024)
	if len(cart.CHRROM) > 0 {
		logger.LogInfo("CHR ROM: %d KB", len(cart.CHRROM)/1024)
	} else {
		logger.LogInfo("CHR RAM: %d KB", len(cart.CHRRAM)/1024)
	}

	return cart, nil
}

// newMachine loads romPath and returns a reset, ready-to-run NES.
func newMachine(romPath string) (*nes.NES, error) {
	cart, err := loadROM(romPath)
	if err != nil {
		return nil, err
	}

	n := nes.New()
	n.LoadCartridge(cart)
	n.Reset()
	return n, nil
}
