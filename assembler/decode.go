package assembler

import (
	"fmt"

	"github.com/pkg/errors"
)

// Fields is a word split back into its instruction fields. Imm is sign
// extended for I, S, B and J; for U it is the raw 20-bit upper immediate.
type Fields struct {
	Fmt    InstrFmt
	Opcode uint8
	Rd     uint8
	Rs1    uint8
	Rs2    uint8
	Funct3 uint8
	Funct7 uint8
	Imm    int32
}

type decodeKey struct {
	opcode, funct3, funct7 uint8
}

var decodeTable = make(map[decodeKey]string)

func populate_decodeTable() {
	for name, d := range InstrTable {
		if d.Opcode == opSystem {
			continue
		}
		key := decodeKey{opcode: d.Opcode}
		switch d.Fmt {
		case R:
			key.funct3, key.funct7 = d.Funct3, d.Funct7
		case I:
			key.funct3 = d.Funct3
			if d.isShift() {
				key.funct7 = d.Funct7
			}
		case S, B:
			key.funct3 = d.Funct3
		}
		decodeTable[key] = name
	}
}

func formatOf(opcode uint8) (InstrFmt, bool) {
	switch opcode {
	case opReg:
		return R, true
	case opImm, opLoad, opJalr, opSystem:
		return I, true
	case opStore:
		return S, true
	case opBranch:
		return B, true
	case opLui, opAuipc:
		return U, true
	case opJal:
		return J, true
	}
	return 0, false
}

func signExtend(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}

// Decode extracts the fields of an RV32I word.
func Decode(word uint32) (Fields, error) {
	opcode := uint8(word & 0x7F)
	f, ok := formatOf(opcode)
	if !ok {
		return Fields{}, errors.Errorf("unknown opcode 0b%07b in %08x", opcode, word)
	}
	fl := Fields{
		Fmt:    f,
		Opcode: opcode,
		Rd:     uint8(word>>7) & 0x1F,
		Funct3: uint8(word>>12) & 0x7,
		Rs1:    uint8(word>>15) & 0x1F,
		Rs2:    uint8(word>>20) & 0x1F,
		Funct7: uint8(word>>25) & 0x7F,
	}
	switch f {
	case I:
		fl.Imm = signExtend(word>>20, 12)
	case S:
		fl.Imm = signExtend((word>>25)<<5|(word>>7)&0x1F, 12)
	case B:
		imm := (word>>31)<<12 |
			((word>>7)&0x1)<<11 |
			((word>>25)&0x3F)<<5 |
			((word>>8)&0xF)<<1
		fl.Imm = signExtend(imm, 13)
	case U:
		fl.Imm = int32(word >> 12)
	case J:
		imm := (word>>31)<<20 |
			((word>>12)&0xFF)<<12 |
			((word>>20)&0x1)<<11 |
			((word>>21)&0x3FF)<<1
		fl.Imm = signExtend(imm, 21)
	}
	return fl, nil
}

// Disassemble renders a word as assembly text using xN register names.
// Branch and jump targets are printed as byte displacements.
func Disassemble(word uint32) (string, error) {
	fl, err := Decode(word)
	if err != nil {
		return "", err
	}
	if fl.Opcode == opSystem {
		switch word {
		case 0x00000073:
			return "ecall", nil
		case 0x00100073:
			return "ebreak", nil
		}
		return "", errors.Errorf("unknown system instruction %08x", word)
	}

	key := decodeKey{opcode: fl.Opcode}
	switch fl.Fmt {
	case R:
		key.funct3, key.funct7 = fl.Funct3, fl.Funct7
	case I:
		key.funct3 = fl.Funct3
		if fl.Opcode == opImm && (fl.Funct3 == 0x1 || fl.Funct3 == 0x5) {
			key.funct7 = uint8(fl.Imm>>5) & 0x7F
		}
	case S, B:
		key.funct3 = fl.Funct3
	}
	name, ok := decodeTable[key]
	if !ok {
		return "", errors.Errorf("no instruction matches %08x", word)
	}

	switch {
	case fl.Fmt == R:
		return fmt.Sprintf("%s x%d, x%d, x%d", name, fl.Rd, fl.Rs1, fl.Rs2), nil
	case fl.Opcode == opLoad, fl.Opcode == opJalr:
		return fmt.Sprintf("%s x%d, %d(x%d)", name, fl.Rd, fl.Imm, fl.Rs1), nil
	case name == "slli", name == "srli", name == "srai":
		return fmt.Sprintf("%s x%d, x%d, %d", name, fl.Rd, fl.Rs1, fl.Imm&0x1F), nil
	case fl.Fmt == I:
		return fmt.Sprintf("%s x%d, x%d, %d", name, fl.Rd, fl.Rs1, fl.Imm), nil
	case fl.Fmt == S:
		return fmt.Sprintf("%s x%d, %d(x%d)", name, fl.Rs2, fl.Imm, fl.Rs1), nil
	case fl.Fmt == B:
		return fmt.Sprintf("%s x%d, x%d, %d", name, fl.Rs1, fl.Rs2, fl.Imm), nil
	case fl.Fmt == U:
		return fmt.Sprintf("%s x%d, 0x%x", name, fl.Rd, fl.Imm), nil
	}
	return fmt.Sprintf("%s x%d, %d", name, fl.Rd, fl.Imm), nil
}
