package assembler

// Format encoders. Each masks its immediate to the field width and never fails;
// registers are range checked by LookupRegister before they get here.

func EncodeR(funct7, rs2, rs1, funct3, rd, opcode uint8) uint32 {
	return uint32(funct7&0x7F)<<25 |
		uint32(rs2&0x1F)<<20 |
		uint32(rs1&0x1F)<<15 |
		uint32(funct3&0x7)<<12 |
		uint32(rd&0x1F)<<7 |
		uint32(opcode&0x7F)
}

func EncodeI(imm int32, rs1, funct3, rd, opcode uint8) uint32 {
	immU := uint32(imm) & 0xFFF
	return immU<<20 |
		uint32(rs1&0x1F)<<15 |
		uint32(funct3&0x7)<<12 |
		uint32(rd&0x1F)<<7 |
		uint32(opcode&0x7F)
}

func EncodeS(imm int32, rs2, rs1, funct3, opcode uint8) uint32 {
	immU := uint32(imm) & 0xFFF
	return (immU>>5)<<25 |
		uint32(rs2&0x1F)<<20 |
		uint32(rs1&0x1F)<<15 |
		uint32(funct3&0x7)<<12 |
		(immU&0x1F)<<7 |
		uint32(opcode&0x7F)
}

// EncodeB takes a byte displacement. Bit 0 is dropped, so callers must pass an
// even value.
func EncodeB(imm int32, rs2, rs1, funct3, opcode uint8) uint32 {
	immU := uint32(imm) & 0x1FFF
	return (immU>>12)<<31 |
		((immU>>5)&0x3F)<<25 |
		uint32(rs2&0x1F)<<20 |
		uint32(rs1&0x1F)<<15 |
		uint32(funct3&0x7)<<12 |
		((immU>>1)&0xF)<<8 |
		((immU>>11)&0x1)<<7 |
		uint32(opcode&0x7F)
}

// EncodeU takes the 20-bit upper immediate, not the full 32-bit value.
func EncodeU(imm int32, rd, opcode uint8) uint32 {
	immU := uint32(imm) & 0xFFFFF
	return immU<<12 |
		uint32(rd&0x1F)<<7 |
		uint32(opcode&0x7F)
}

// EncodeJ takes a byte displacement, see EncodeB.
func EncodeJ(imm int32, rd, opcode uint8) uint32 {
	immU := uint32(imm) & 0x1FFFFF
	return (immU>>20)<<31 |
		((immU>>1)&0x3FF)<<21 |
		((immU>>11)&0x1)<<20 |
		((immU>>12)&0xFF)<<12 |
		uint32(rd&0x1F)<<7 |
		uint32(opcode&0x7F)
}
