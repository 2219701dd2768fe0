package cpu

import (
	"testing"

	"github.com/hirokazu-sato/nesgo/pkg/memory"
)

// createTestCPU wires a CPU to a bare Memory with the reset vector
// pointed at $0200, where tests load their program bytes.
func createTestCPU() *CPU {
	mem := memory.New()
	cpu := New(mem)

	mem.Write(0xFFFC, 0x00)
	mem.Write(0xFFFD, 0x02)

	cpu.Reset()
	return cpu
}

func loadProgram(c *CPU, addr uint16, program []uint8) {
	for i, b := range program {
		c.Memory.Write(addr+uint16(i), b)
	}
}

// run steps the CPU n times, failing the test on any error.
func run(t *testing.T, c *CPU, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if _, err := c.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}

func TestCPUReset(t *testing.T) {
	c := createTestCPU()
	c.A, c.X, c.Y = 0xFF, 0xFF, 0xFF
	c.SP = 0x00
	c.P = StatusFlags(0xFF)

	c.Reset()

	if c.A != 0 {
		t.Errorf("expected A=0, got A=%02X", c.A)
	}
	if c.X != 0 {
		t.Errorf("expected X=0, got X=%02X", c.X)
	}
	if c.Y != 0 {
		t.Errorf("expected Y=0, got Y=%02X", c.Y)
	}
	if c.SP != 0xFF {
		t.Errorf("expected SP=$FF, got SP=%02X", c.SP)
	}
	if c.P != FlagReserved {
		t.Errorf("expected P=R only ($%02X), got $%02X", FlagReserved, c.P)
	}
	if c.PC != 0x0200 {
		t.Errorf("expected PC=$0200, got $%04X", c.PC)
	}
}

func TestFlags(t *testing.T) {
	c := createTestCPU()
	c.setFlag(FlagCarry, true)
	if !c.getFlag(FlagCarry) {
		t.Error("carry flag should be set")
	}
	c.setFlag(FlagCarry, false)
	if c.getFlag(FlagCarry) {
		t.Error("carry flag should be clear")
	}
}

func TestStackRoundTrip(t *testing.T) {
	c := createTestCPU()
	for _, v := range []uint8{0x00, 0x42, 0xFF, 0x01} {
		sp := c.SP
		c.push(v)
		if c.SP != sp-1 {
			t.Errorf("push did not decrement SP: before=%02X after=%02X", sp, c.SP)
		}
		got := c.pop()
		if got != v {
			t.Errorf("pop returned %02X, want %02X", got, v)
		}
		if c.SP != sp {
			t.Errorf("push/pop round trip left SP at %02X, want %02X", c.SP, sp)
		}
	}
}

func TestStackWrapsAtPageBoundary(t *testing.T) {
	c := createTestCPU()
	c.SP = 0x00
	c.push(0xAB)
	if c.SP != 0xFF {
		t.Errorf("push from SP=$00 should wrap to $FF, got %02X", c.SP)
	}
	v := c.pop()
	if v != 0xAB || c.SP != 0x00 {
		t.Errorf("pop after wrap: v=%02X sp=%02X, want v=AB sp=00", v, c.SP)
	}
}

// TestFlagManipulation is spec scenario 1: starting from P=$60 (V and R
// set), SEC SED SEI CLC CLD CLI CLV leaves P=$20.
func TestFlagManipulation(t *testing.T) {
	c := createTestCPU()
	c.P = StatusFlags(0x60)
	loadProgram(c, 0x0200, []uint8{0x38, 0xF8, 0x78, 0x18, 0xD8, 0x58, 0xB8})
	run(t, c, 7)
	if c.P.ReadAll() != 0x20 {
		t.Errorf("final P = $%02X, want $20", c.P.ReadAll())
	}
}

// TestRegisterMoves is spec scenario 2.
func TestRegisterMoves(t *testing.T) {
	c := createTestCPU()
	loadProgram(c, 0x0200, []uint8{0xA9, 0x0A, 0xAA, 0x8A, 0xA9, 0x0B, 0xA8, 0x98})
	run(t, c, 8)
	if c.A != 0x0B || c.X != 0x0A || c.Y != 0x0B {
		t.Errorf("A=%02X X=%02X Y=%02X, want A=0B X=0A Y=0B", c.A, c.X, c.Y)
	}
}

// TestLogicChain is spec scenario 3.
func TestLogicChain(t *testing.T) {
	c := createTestCPU()
	c.A = 0x0B
	loadProgram(c, 0x0200, []uint8{0x09, 0xA0, 0x49, 0xBA, 0x29, 0x44})
	run(t, c, 3)
	if c.A != 0x00 {
		t.Errorf("final A = %02X, want 00", c.A)
	}
	if !c.P.Test(FlagZero) || c.P.Test(FlagNegative) {
		t.Errorf("expected Z set and N clear, P=$%02X", c.P.ReadAll())
	}
}

// TestJSRRTSRoundTrip is spec scenario 4.
func TestJSRRTSRoundTrip(t *testing.T) {
	c := createTestCPU()
	mem := memory.New()
	mem.Write(0xFFFC, 0x00)
	mem.Write(0xFFFD, 0x80)
	c.Memory = mem
	c.Reset()

	loadProgram(c, 0x8000, []uint8{0x20, 0x06, 0x80})
	loadProgram(c, 0x8006, []uint8{0x60})

	run(t, c, 1) // JSR
	if hi, lo := mem.Read(0x01FF), mem.Read(0x01FE); hi != 0x80 || lo != 0x02 {
		t.Errorf("stack after JSR = %02X %02X, want 80 02", hi, lo)
	}
	if c.PC != 0x8006 {
		t.Errorf("PC after JSR = $%04X, want $8006", c.PC)
	}
	run(t, c, 1) // RTS
	if c.PC != 0x8003 {
		t.Errorf("PC after RTS = $%04X, want $8003", c.PC)
	}
}

// TestBRKRTI is spec scenario 5.
func TestBRKRTI(t *testing.T) {
	mem := memory.New()
	c := New(mem)
	mem.Write(0xFFFC, 0x00)
	mem.Write(0xFFFD, 0x80)
	c.Reset()

	mem.Write(0xFFFE, 0x90)
	mem.Write(0xFFFF, 0x80)
	loadProgram(c, 0x8000, []uint8{0x00})
	loadProgram(c, 0x8090, []uint8{0x40})

	run(t, c, 1) // BRK
	if c.PC != 0x8090 {
		t.Errorf("PC after BRK = $%04X, want $8090", c.PC)
	}
	if !c.P.Test(FlagInterrupt) {
		t.Error("I flag should be set after BRK")
	}
	pushedP := mem.Read(0x01FD)
	if pushedP&uint8(FlagBreak) == 0 {
		t.Error("pushed P should have B set")
	}

	run(t, c, 1) // RTI
	if c.PC != 0x8002 {
		t.Errorf("PC after RTI = $%04X, want $8002", c.PC)
	}
	if c.P.Test(FlagBreak) {
		t.Error("RTI should ignore the pushed B flag, not restore it")
	}
}

func TestIRQServicedWhenUnmasked(t *testing.T) {
	c := createTestCPU()
	mem := c.Memory
	mem.Write(0xFFFE, 0x34)
	mem.Write(0xFFFF, 0x12)
	loadProgram(c, 0x0200, []uint8{0xEA})

	c.P.Clear(FlagInterrupt)
	c.TriggerIRQ()
	run(t, c, 1)

	if c.PC != 0x1234 {
		t.Errorf("PC after serviced IRQ = $%04X, want $1234", c.PC)
	}
	if !c.P.Test(FlagInterrupt) {
		t.Error("I flag should be set after servicing IRQ")
	}
}

func TestIRQMaskedWhenIFlagSet(t *testing.T) {
	c := createTestCPU()
	loadProgram(c, 0x0200, []uint8{0xEA})

	c.P.Set(FlagInterrupt)
	c.TriggerIRQ()
	run(t, c, 1)

	if c.PC != 0x0201 {
		t.Errorf("masked IRQ should let the NOP execute normally, PC=$%04X", c.PC)
	}
}

func TestSTPHalts(t *testing.T) {
	c := createTestCPU()
	loadProgram(c, 0x0200, []uint8{0x02})

	if _, err := c.Step(); err != nil {
		t.Fatalf("executing STP itself should not error: %v", err)
	}
	if !c.Halted() {
		t.Error("CPU should report halted after STP")
	}
	if _, err := c.Step(); err == nil {
		t.Error("stepping a halted CPU should return an error")
	}
}

func TestRAMMirroring(t *testing.T) {
	c := createTestCPU()
	c.Memory.Write(0x0010, 0x42)
	for k := uint16(1); k <= 3; k++ {
		addr := 0x0010 + 0x0800*k
		if got := c.Memory.Read(addr); got != 0x42 {
			t.Errorf("mirror at $%04X = %02X, want 42", addr, got)
		}
	}
}
