package ppu

import "testing"

func TestVBlankSetAndClearedOnStatusRead(t *testing.T) {
	p := New()
	for i := 0; i < cyclesPerScanline*(vblankScanline+1); i++ {
		p.Step()
	}
	if p.status&StatusVBlank == 0 {
		t.Fatal("expected vblank flag set at scanline 241")
	}
	if v := p.ReadRegister(0x2002); v&StatusVBlank == 0 {
		t.Fatal("expected status read to report vblank")
	}
	if p.status&StatusVBlank != 0 {
		t.Fatal("expected status read to clear vblank flag")
	}
}

func TestNMIRequestedOnlyWhenEnabled(t *testing.T) {
	p := New()
	p.WriteRegister(0x2000, 0) // NMI disabled
	for i := 0; i < cyclesPerScanline*(vblankScanline+1); i++ {
		p.Step()
	}
	if p.NMIRequested {
		t.Fatal("NMI should not fire when PPUCTRL bit 7 is clear")
	}

	p.Reset()
	p.WriteRegister(0x2000, CtrlNMIEnable)
	for i := 0; i < cyclesPerScanline*(vblankScanline+1); i++ {
		p.Step()
	}
	if !p.NMIRequested {
		t.Fatal("NMI should fire when PPUCTRL bit 7 is set")
	}
}

func TestFrameCompletesAfterFullScanlineCount(t *testing.T) {
	p := New()
	for i := 0; i < cyclesPerScanline*scanlinesPerFrame; i++ {
		p.Step()
	}
	if !p.FrameComplete {
		t.Fatal("expected frame completion after a full scanline count")
	}
	if p.Frame != 1 {
		t.Fatalf("expected frame counter 1, got %d", p.Frame)
	}
}

func TestPPUDataReadIsBuffered(t *testing.T) {
	p := New()
	p.WriteRegister(0x2006, 0x20)
	p.WriteRegister(0x2006, 0x00)
	p.WriteRegister(0x2007, 0xAB)

	p.WriteRegister(0x2006, 0x20)
	p.WriteRegister(0x2006, 0x00)
	first := p.ReadRegister(0x2007)
	if first != 0 {
		t.Fatalf("expected stale read-buffer value 0 on first read, got $%02X", first)
	}
	second := p.ReadRegister(0x2007)
	if second != 0xAB {
		t.Fatalf("expected buffered value $AB, got $%02X", second)
	}
}

func TestOAMAddrAutoIncrementsOnWrite(t *testing.T) {
	p := New()
	p.WriteRegister(0x2003, 0x10)
	p.WriteRegister(0x2004, 0x55)
	if p.oam[0x10] != 0x55 {
		t.Fatalf("expected OAM[0x10]=0x55, got $%02X", p.oam[0x10])
	}
	if p.oamAddr != 0x11 {
		t.Fatalf("expected OAMADDR to auto-increment to 0x11, got $%02X", p.oamAddr)
	}
}
