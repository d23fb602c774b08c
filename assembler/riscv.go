package assembler

import "fmt"

// register mapping
var regMap = make(map[string]uint8, 72)

// instruction mappings
var InstrTable = make(map[string]InstrDesc)

// InstrFmt is one of the six RV32I bit layouts.
type InstrFmt uint8

const (
	R InstrFmt = iota // register–register
	I                 // immediate / loads / jalr / system
	S                 // stores
	B                 // branches
	U                 // lui, auipc
	J                 // jumps
)

func (f InstrFmt) String() string {
	switch f {
	case R:
		return "R"
	case I:
		return "I"
	case S:
		return "S"
	case B:
		return "B"
	case U:
		return "U"
	case J:
		return "J"
	}
	return fmt.Sprintf("InstrFmt(%d)", uint8(f))
}

// major opcodes
const (
	opLoad   uint8 = 0b0000011
	opImm    uint8 = 0b0010011
	opAuipc  uint8 = 0b0010111
	opStore  uint8 = 0b0100011
	opReg    uint8 = 0b0110011
	opLui    uint8 = 0b0110111
	opBranch uint8 = 0b1100011
	opJalr   uint8 = 0b1100111
	opJal    uint8 = 0b1101111
	opSystem uint8 = 0b1110011
)

// InstrDesc holds the fixed fields of a base mnemonic. For the shift-immediate
// mnemonics funct7 is not a separate field in the word: it is folded into bits
// [11:5] of the I-immediate.
type InstrDesc struct {
	Fmt    InstrFmt
	Opcode uint8
	Funct3 uint8
	Funct7 uint8
}

// isShift reports whether d is slli, srli or srai.
func (d InstrDesc) isShift() bool {
	return d.Fmt == I && d.Opcode == opImm && (d.Funct3 == 0x1 || d.Funct3 == 0x5)
}

// LookupRegister returns the 5-bit index for an ABI name or xN register.
// Matching is exact and case-sensitive.
func LookupRegister(name string) (uint8, error) {
	r, ok := regMap[name]
	if !ok {
		return 0, &UnknownRegisterError{Name: name}
	}
	return r, nil
}

// LookupInstr returns the descriptor of a base mnemonic.
func LookupInstr(mnemonic string) (InstrDesc, bool) {
	d, ok := InstrTable[mnemonic]
	return d, ok
}

// Encode packs one base instruction. Operands a format does not use are ignored.
func Encode(mnemonic string, rd, rs1, rs2 uint8, imm int32) (uint32, error) {
	d, ok := InstrTable[mnemonic]
	if !ok {
		return 0, &UnknownOpcodeError{Name: mnemonic}
	}
	switch d.Fmt {
	case R:
		return EncodeR(d.Funct7, rs2, rs1, d.Funct3, rd, d.Opcode), nil
	case I:
		if d.isShift() {
			imm = imm&0x1F | int32(d.Funct7)<<5
		}
		return EncodeI(imm, rs1, d.Funct3, rd, d.Opcode), nil
	case S:
		return EncodeS(imm, rs2, rs1, d.Funct3, d.Opcode), nil
	case B:
		return EncodeB(imm, rs2, rs1, d.Funct3, d.Opcode), nil
	case U:
		return EncodeU(imm, rd, d.Opcode), nil
	case J:
		return EncodeJ(imm, rd, d.Opcode), nil
	}
	return 0, &UnknownOpcodeError{Name: mnemonic}
}

func populate_regMap() {
	abiNames := []string{
		"zero", "ra", "sp", "gp", "tp",
		"t0", "t1", "t2",
		"s0", "s1",
		"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7",
		"s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10", "s11",
		"t3", "t4", "t5", "t6",
	}
	for i, reg := range abiNames {
		regMap[reg] = uint8(i)
		regMap[fmt.Sprintf("x%d", i)] = uint8(i)
	}
	regMap["fp"] = 8
}

func populate_instrTable() {
	//R Instructions
	InstrTable["add"] = InstrDesc{Fmt: R, Opcode: opReg, Funct3: 0x0, Funct7: 0x00}
	InstrTable["sub"] = InstrDesc{Fmt: R, Opcode: opReg, Funct3: 0x0, Funct7: 0x20}
	InstrTable["xor"] = InstrDesc{Fmt: R, Opcode: opReg, Funct3: 0x4, Funct7: 0x00}
	InstrTable["or"] = InstrDesc{Fmt: R, Opcode: opReg, Funct3: 0x6, Funct7: 0x00}
	InstrTable["and"] = InstrDesc{Fmt: R, Opcode: opReg, Funct3: 0x7, Funct7: 0x00}
	InstrTable["sll"] = InstrDesc{Fmt: R, Opcode: opReg, Funct3: 0x1, Funct7: 0x00}
	InstrTable["srl"] = InstrDesc{Fmt: R, Opcode: opReg, Funct3: 0x5, Funct7: 0x00}
	InstrTable["sra"] = InstrDesc{Fmt: R, Opcode: opReg, Funct3: 0x5, Funct7: 0x20}
	InstrTable["slt"] = InstrDesc{Fmt: R, Opcode: opReg, Funct3: 0x2, Funct7: 0x00}
	InstrTable["sltu"] = InstrDesc{Fmt: R, Opcode: opReg, Funct3: 0x3, Funct7: 0x00}
	//I Instructions
	InstrTable["addi"] = InstrDesc{Fmt: I, Opcode: opImm, Funct3: 0x0}
	InstrTable["xori"] = InstrDesc{Fmt: I, Opcode: opImm, Funct3: 0x4}
	InstrTable["ori"] = InstrDesc{Fmt: I, Opcode: opImm, Funct3: 0x6}
	InstrTable["andi"] = InstrDesc{Fmt: I, Opcode: opImm, Funct3: 0x7}
	InstrTable["slli"] = InstrDesc{Fmt: I, Opcode: opImm, Funct3: 0x1, Funct7: 0x00}
	InstrTable["srli"] = InstrDesc{Fmt: I, Opcode: opImm, Funct3: 0x5, Funct7: 0x00}
	InstrTable["srai"] = InstrDesc{Fmt: I, Opcode: opImm, Funct3: 0x5, Funct7: 0x20}
	InstrTable["slti"] = InstrDesc{Fmt: I, Opcode: opImm, Funct3: 0x2}
	InstrTable["sltiu"] = InstrDesc{Fmt: I, Opcode: opImm, Funct3: 0x3}
	InstrTable["lb"] = InstrDesc{Fmt: I, Opcode: opLoad, Funct3: 0x0}
	InstrTable["lh"] = InstrDesc{Fmt: I, Opcode: opLoad, Funct3: 0x1}
	InstrTable["lw"] = InstrDesc{Fmt: I, Opcode: opLoad, Funct3: 0x2}
	InstrTable["lbu"] = InstrDesc{Fmt: I, Opcode: opLoad, Funct3: 0x4}
	InstrTable["lhu"] = InstrDesc{Fmt: I, Opcode: opLoad, Funct3: 0x5}
	//S Instructions
	InstrTable["sb"] = InstrDesc{Fmt: S, Opcode: opStore, Funct3: 0x0}
	InstrTable["sh"] = InstrDesc{Fmt: S, Opcode: opStore, Funct3: 0x1}
	InstrTable["sw"] = InstrDesc{Fmt: S, Opcode: opStore, Funct3: 0x2}
	//B Instructions
	InstrTable["beq"] = InstrDesc{Fmt: B, Opcode: opBranch, Funct3: 0x0}
	InstrTable["bne"] = InstrDesc{Fmt: B, Opcode: opBranch, Funct3: 0x1}
	InstrTable["blt"] = InstrDesc{Fmt: B, Opcode: opBranch, Funct3: 0x4}
	InstrTable["bge"] = InstrDesc{Fmt: B, Opcode: opBranch, Funct3: 0x5}
	InstrTable["bltu"] = InstrDesc{Fmt: B, Opcode: opBranch, Funct3: 0x6}
	InstrTable["bgeu"] = InstrDesc{Fmt: B, Opcode: opBranch, Funct3: 0x7}
	//J Instructions
	InstrTable["jal"] = InstrDesc{Fmt: J, Opcode: opJal}
	InstrTable["jalr"] = InstrDesc{Fmt: I, Opcode: opJalr, Funct3: 0x0}
	//U Instructions
	InstrTable["lui"] = InstrDesc{Fmt: U, Opcode: opLui}
	InstrTable["auipc"] = InstrDesc{Fmt: U, Opcode: opAuipc}
	//Transfer Instructions, told apart by imm (0 / 1)
	InstrTable["ecall"] = InstrDesc{Fmt: I, Opcode: opSystem, Funct3: 0x0}
	InstrTable["ebreak"] = InstrDesc{Fmt: I, Opcode: opSystem, Funct3: 0x0}
}

func init() {
	populate_regMap()
	populate_instrTable()
	populate_decodeTable()
}
