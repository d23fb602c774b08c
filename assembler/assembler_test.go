package assembler_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"

	"rv32asm/assembler"
)

func words(src string) []uint32 {
	GinkgoHelper()
	p, err := assembler.Assemble(src)
	Expect(err).NotTo(HaveOccurred())
	return p.Words
}

func word(src string) uint32 {
	GinkgoHelper()
	w := words(src)
	Expect(w).To(HaveLen(1))
	return w[0]
}

func assembleErr(src string) error {
	GinkgoHelper()
	p, err := assembler.Assemble(src)
	Expect(err).To(HaveOccurred())
	Expect(p).To(BeNil())
	return err
}

var _ = Describe("Assemble", func() {
	It("encodes the loop example", func() {
		src := `
start:
addi a0, x0, 5
add a1, a0, a0
beq a0, a1, start
`
		w := words(src)
		Expect(w).To(Equal([]uint32{0x00500513, 0x00a505b3, 0xfeb50ce3}))

		text := make([]string, len(w))
		for i := range w {
			var err error
			text[i], err = assembler.Disassemble(w[i])
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(text).To(Equal([]string{
			"addi x10, x0, 5",
			"add x11, x10, x10",
			"beq x10, x11, -8",
		}))
	})

	It("records addresses and source for each word", func() {
		p, err := assembler.Assemble("start:\n  addi a0,   x0, 5   # five\nnop\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Lines).To(Equal([]assembler.Line{
			{Addr: 0, Num: 2, Text: "addi a0, x0, 5"},
			{Addr: 4, Num: 3, Text: "nop"},
		}))
		Expect(p.Labels).To(Equal(map[string]uint32{"start": 0}))
	})

	It("returns no words for an empty program", func() {
		Expect(words("\n# nothing here\n   \n")).To(BeEmpty())
	})

	It("lowercases mnemonics but not registers", func() {
		Expect(word("ADDI a0, x0, 5")).To(Equal(uint32(0x00500513)))
		err := assembleErr("addi A0, x0, 5")
		Expect(errors.Cause(err)).To(Equal(&assembler.UnknownRegisterError{Name: "A0"}))
	})

	Describe("labels", func() {
		It("resolves to 4*N regardless of label-only lines", func() {
			p, err := assembler.Assemble(`
a:
b:
	nop
	nop   # two
c:

# comment only
d:
	nop
e:
`)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Labels).To(Equal(map[string]uint32{"a": 0, "b": 0, "c": 8, "d": 8, "e": 12}))
		})

		It("resolves forward references", func() {
			Expect(words("j end\nnop\nend:\nnop")).To(Equal([]uint32{0x0080006f, 0x00000013, 0x00000013}))
		})

		It("is case-sensitive", func() {
			err := assembleErr("Loop:\nj loop")
			Expect(errors.Cause(err)).To(Equal(&assembler.UndefinedLabelError{Name: "loop"}))
		})

		It("rejects duplicates", func() {
			err := assembleErr("x:\nnop\nx:\nnop")
			Expect(errors.Cause(err)).To(Equal(&assembler.DuplicateLabelError{Name: "x"}))
			var le *assembler.LineError
			Expect(errors.As(err, &le)).To(BeTrue())
			Expect(le.Num).To(Equal(3))
		})

		It("uses a literal target as the displacement", func() {
			Expect(word("beq a0, a1, -8")).To(Equal(uint32(0xfeb50ce3)))
			Expect(word("jal ra, 16")).To(Equal(uint32(0x010000ef)))
		})
	})

	DescribeTable("pseudo-instructions match their expansion",
		func(pseudo, base string) {
			Expect(word(pseudo)).To(Equal(word(base)))
		},
		Entry("li", "li t0, 100", "addi t0, x0, 100"),
		Entry("li hex", "li a0, 0x7ff", "addi a0, zero, 2047"),
		Entry("mv", "mv a0, a1", "add a0, a1, x0"),
		Entry("not", "not a0, a1", "xori a0, a1, -1"),
		Entry("neg", "neg a0, a1", "sub a0, x0, a1"),
		Entry("nop", "nop", "addi x0, x0, 0"),
		Entry("ret", "ret", "jalr x0, 0(ra)"),
		Entry("jr", "jr t1", "jalr zero, 0(t1)"),
		Entry("j", "j 8", "jal x0, 8"),
		Entry("jal one operand", "jal 8", "jal ra, 8"),
		Entry("beqz", "beqz a0, 12", "beq a0, x0, 12"),
		Entry("bnez", "bnez a0, -4", "bne a0, zero, -4"),
	)

	It("truncates li immediates wider than 12 bits", func() {
		Expect(word("li a0, 0x1005")).To(Equal(word("li a0, 5")))
	})

	DescribeTable("base encodings",
		func(src string, want uint32) {
			Expect(word(src)).To(Equal(want))
		},
		Entry("store", "sw a0, 4(sp)", uint32(0x00a12223)),
		Entry("load", "lw a0, 8(sp)", uint32(0x00812503)),
		Entry("load without offset", "lw a0, (sp)", uint32(0x00012503)),
		Entry("jalr offset form", "jalr ra, 0(t0)", uint32(0x000280e7)),
		Entry("jalr three operands", "jalr ra, t0, 0", uint32(0x000280e7)),
		Entry("srai", "srai a0, a0, 3", uint32(0x40355513)),
		Entry("slli", "slli a1, a1, 2", uint32(0x00259593)),
		Entry("lui", "lui a0, 0x12345", uint32(0x12345537)),
		Entry("ecall", "ecall", uint32(0x00000073)),
		Entry("ebreak", "ebreak", uint32(0x00100073)),
		Entry("fp alias", "addi fp, sp, 16", uint32(0x01010413)),
	)

	It("decodes the store fields", func() {
		f, err := assembler.Decode(word("sw a0, 4(sp)"))
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Fmt).To(Equal(assembler.S))
		Expect(f.Rs1).To(Equal(uint8(2)))
		Expect(f.Rs2).To(Equal(uint8(10)))
		Expect(f.Imm).To(Equal(int32(4)))
	})

	Describe("errors", func() {
		It("rejects a missing operand instead of defaulting it", func() {
			err := assembleErr("add a0,a1")
			Expect(errors.Cause(err)).To(Equal(&assembler.UnsupportedOperandShapeError{Line: "add a0,a1"}))
		})

		It("reports the offending line verbatim", func() {
			err := assembleErr("nop\n  lui a0, a1, a2  # bad\n")
			var le *assembler.LineError
			Expect(errors.As(err, &le)).To(BeTrue())
			Expect(le.Num).To(Equal(2))
			Expect(le.Text).To(Equal("  lui a0, a1, a2  # bad"))
			Expect(errors.Cause(err)).To(Equal(&assembler.UnsupportedOperandShapeError{Line: "  lui a0, a1, a2  # bad"}))
			Expect(err.Error()).To(ContainSubstring("line 2"))
		})

		DescribeTable("taxonomy",
			func(src string, want error) {
				Expect(errors.Cause(assembleErr(src))).To(Equal(want))
			},
			Entry("unknown opcode", "mul a0, a1, a2", &assembler.UnknownOpcodeError{Name: "mul"}),
			Entry("label on an instruction line", "loop: nop", &assembler.UnknownOpcodeError{Name: "loop:"}),
			Entry("unknown register", "add a0, a1, q9", &assembler.UnknownRegisterError{Name: "q9"}),
			Entry("unknown base register", "lw a0, 4(x32)", &assembler.UnknownRegisterError{Name: "x32"}),
			Entry("malformed literal", "addi a0, a0, 0xZZ", &assembler.MalformedLiteralError{Token: "0xZZ"}),
			Entry("malformed offset", "sw a0, 4q(sp)", &assembler.MalformedLiteralError{Token: "4q"}),
			Entry("undefined label", "j nowhere", &assembler.UndefinedLabelError{Name: "nowhere"}),
			Entry("undefined branch label", "bne a0, a1, nowhere", &assembler.UndefinedLabelError{Name: "nowhere"}),
			Entry("empty operand", "add a0, , a1", &assembler.UnknownRegisterError{Name: ""}),
			Entry("too many operands", "add a0, a1, a2, a3", &assembler.UnsupportedOperandShapeError{Line: "add a0, a1, a2, a3"}),
			Entry("pseudo with three operands", "mv a0, a1, a2", &assembler.UnsupportedOperandShapeError{Line: "mv a0, a1, a2"}),
			Entry("store without offset syntax", "sw a0, sp", &assembler.UnsupportedOperandShapeError{Line: "sw a0, sp"}),
			Entry("load with three operands", "lw a0, sp, 4", &assembler.UnsupportedOperandShapeError{Line: "lw a0, sp, 4"}),
			Entry("ecall with operands", "ecall a0", &assembler.UnsupportedOperandShapeError{Line: "ecall a0"}),
			Entry("empty label", ":", &assembler.UnsupportedOperandShapeError{Line: ":"}),
		)

		It("aborts on the first error with no partial output", func() {
			err := assembleErr("nop\nnop\nbogus\nnop\nj missing")
			Expect(errors.Cause(err)).To(Equal(&assembler.UnknownOpcodeError{Name: "bogus"}))
		})
	})

	It("reads source from a reader", func() {
		p, err := assembler.AssembleReader(strings.NewReader("li t0, 100\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Words).To(Equal([]uint32{0x06400293}))
	})
})
