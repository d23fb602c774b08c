package assembler

import "strings"

// pseudo-instructions, keyed by the operand count they accept
var pseudoTable = map[string]int{
	"nop":  0,
	"ret":  0,
	"j":    1,
	"jr":   1,
	"li":   2,
	"mv":   2,
	"not":  2,
	"neg":  2,
	"beqz": 2,
	"bnez": 2,
}

// instruction is one instruction line in pass 2, discarded once encoded.
type instruction struct {
	mnemonic string
	ops      []string
	addr     uint32
	line     string
	labels   map[string]uint32
}

func (in *instruction) shapeErr() error {
	return &UnsupportedOperandShapeError{Line: in.line}
}

func (in *instruction) reg(i int) (uint8, error) {
	return LookupRegister(in.ops[i])
}

func (in *instruction) imm(i int) (int32, error) {
	return ParseLiteral(in.ops[i])
}

// target resolves a branch or jump operand to a signed byte displacement from
// the current instruction. A non-label literal is taken as the displacement.
func (in *instruction) target(i int) (int32, error) {
	name := in.ops[i]
	if addr, ok := in.labels[name]; ok {
		return int32(addr) - int32(in.addr), nil
	}
	if v, err := ParseLiteral(name); err == nil {
		return v, nil
	}
	return 0, &UndefinedLabelError{Name: name}
}

// offset splits an imm(reg) operand. An empty imm means 0.
func (in *instruction) offset(i int) (int32, uint8, error) {
	op := in.ops[i]
	open := strings.Index(op, "(")
	close := strings.LastIndex(op, ")")
	if open < 0 || close < open || close != len(op)-1 {
		return 0, 0, in.shapeErr()
	}
	var imm int32
	if s := strings.TrimSpace(op[:open]); s != "" {
		v, err := ParseLiteral(s)
		if err != nil {
			return 0, 0, err
		}
		imm = v
	}
	base, err := LookupRegister(strings.TrimSpace(op[open+1 : close]))
	if err != nil {
		return 0, 0, err
	}
	return imm, base, nil
}

// encode selects a rule from the mnemonic and operand count and produces the
// word.
func (in *instruction) encode() (uint32, error) {
	desc, base := InstrTable[in.mnemonic]
	if _, pseudo := pseudoTable[in.mnemonic]; !base && !pseudo {
		return 0, &UnknownOpcodeError{Name: in.mnemonic}
	}
	switch len(in.ops) {
	case 0:
		return in.encode0()
	case 1:
		return in.encode1()
	case 2:
		return in.encode2(desc)
	case 3:
		return in.encode3(desc)
	}
	return 0, in.shapeErr()
}

func (in *instruction) encode0() (uint32, error) {
	switch in.mnemonic {
	case "nop":
		return Encode("addi", 0, 0, 0, 0)
	case "ret":
		return Encode("jalr", 0, regMap["ra"], 0, 0)
	case "ecall":
		return Encode("ecall", 0, 0, 0, 0)
	case "ebreak":
		return Encode("ebreak", 0, 0, 0, 1)
	}
	return 0, in.shapeErr()
}

func (in *instruction) encode1() (uint32, error) {
	switch in.mnemonic {
	case "j", "jal":
		disp, err := in.target(0)
		if err != nil {
			return 0, err
		}
		rd := uint8(0)
		if in.mnemonic == "jal" {
			rd = regMap["ra"]
		}
		return Encode("jal", rd, 0, 0, disp)
	case "jr":
		rs, err := in.reg(0)
		if err != nil {
			return 0, err
		}
		return Encode("jalr", 0, rs, 0, 0)
	}
	return 0, in.shapeErr()
}

func (in *instruction) encode2(desc InstrDesc) (uint32, error) {
	switch in.mnemonic {
	case "li":
		rd, err := in.reg(0)
		if err != nil {
			return 0, err
		}
		imm, err := in.imm(1)
		if err != nil {
			return 0, err
		}
		return Encode("addi", rd, 0, 0, imm)
	case "mv", "not", "neg":
		rd, err := in.reg(0)
		if err != nil {
			return 0, err
		}
		rs, err := in.reg(1)
		if err != nil {
			return 0, err
		}
		switch in.mnemonic {
		case "mv":
			return Encode("add", rd, rs, 0, 0)
		case "not":
			return Encode("xori", rd, rs, 0, -1)
		default:
			return Encode("sub", rd, 0, rs, 0)
		}
	case "beqz", "bnez":
		rs, err := in.reg(0)
		if err != nil {
			return 0, err
		}
		disp, err := in.target(1)
		if err != nil {
			return 0, err
		}
		return Encode(strings.TrimSuffix(in.mnemonic, "z"), 0, rs, 0, disp)
	}

	switch {
	case desc.Fmt == U:
		rd, err := in.reg(0)
		if err != nil {
			return 0, err
		}
		imm, err := in.imm(1)
		if err != nil {
			return 0, err
		}
		return Encode(in.mnemonic, rd, 0, 0, imm)
	case desc.Fmt == J:
		rd, err := in.reg(0)
		if err != nil {
			return 0, err
		}
		disp, err := in.target(1)
		if err != nil {
			return 0, err
		}
		return Encode(in.mnemonic, rd, 0, 0, disp)
	case desc.Opcode == opLoad, desc.Opcode == opJalr:
		rd, err := in.reg(0)
		if err != nil {
			return 0, err
		}
		imm, rs1, err := in.offset(1)
		if err != nil {
			return 0, err
		}
		return Encode(in.mnemonic, rd, rs1, 0, imm)
	case desc.Fmt == S:
		rs2, err := in.reg(0)
		if err != nil {
			return 0, err
		}
		imm, rs1, err := in.offset(1)
		if err != nil {
			return 0, err
		}
		return Encode(in.mnemonic, 0, rs1, rs2, imm)
	}
	return 0, in.shapeErr()
}

func (in *instruction) encode3(desc InstrDesc) (uint32, error) {
	if _, pseudo := pseudoTable[in.mnemonic]; pseudo {
		return 0, in.shapeErr()
	}
	switch {
	case desc.Fmt == R:
		rd, err := in.reg(0)
		if err != nil {
			return 0, err
		}
		rs1, err := in.reg(1)
		if err != nil {
			return 0, err
		}
		rs2, err := in.reg(2)
		if err != nil {
			return 0, err
		}
		return Encode(in.mnemonic, rd, rs1, rs2, 0)
	case desc.Opcode == opImm, desc.Opcode == opJalr:
		rd, err := in.reg(0)
		if err != nil {
			return 0, err
		}
		rs1, err := in.reg(1)
		if err != nil {
			return 0, err
		}
		imm, err := in.imm(2)
		if err != nil {
			return 0, err
		}
		return Encode(in.mnemonic, rd, rs1, 0, imm)
	case desc.Fmt == B:
		rs1, err := in.reg(0)
		if err != nil {
			return 0, err
		}
		rs2, err := in.reg(1)
		if err != nil {
			return 0, err
		}
		disp, err := in.target(2)
		if err != nil {
			return 0, err
		}
		return Encode(in.mnemonic, 0, rs1, rs2, disp)
	}
	return 0, in.shapeErr()
}
