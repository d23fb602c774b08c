// Package output writes assembled words in the formats the assembler supports.
package output

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"rv32asm/assembler"
)

// Format selects how words are written.
type Format int

const (
	Hex     Format = iota // one 8-digit lowercase word per line
	COE                   // memory initialization listing
	Binary                // little-endian words
	Listing               // address, word and source text
)

var formatNames = map[string]Format{
	"hex":     Hex,
	"coe":     COE,
	"bin":     Binary,
	"listing": Listing,
}

func (f Format) String() string {
	for name, v := range formatNames {
		if v == f {
			return name
		}
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat maps a format name to a Format.
func ParseFormat(name string) (Format, error) {
	f, ok := formatNames[name]
	if !ok {
		return 0, errors.Errorf("unknown output format %q", name)
	}
	return f, nil
}

// Write writes p to w in format f.
func Write(w io.Writer, f Format, p *assembler.Program) error {
	switch f {
	case Hex:
		return WriteHex(w, p.Words)
	case COE:
		return WriteCOE(w, p.Words)
	case Binary:
		return WriteBinary(w, p.Words)
	case Listing:
		return WriteListing(w, p)
	}
	return errors.Errorf("unknown output format %d", int(f))
}

func WriteHex(w io.Writer, words []uint32) error {
	ew := newErrWriter(w)
	for _, word := range words {
		fmt.Fprintf(ew, "%08x\n", word)
	}
	return ew.err
}

// WriteCOE writes the listing used to seed FPGA block memories: a two line
// header, then the words separated by commas with the last one ending in ';'.
func WriteCOE(w io.Writer, words []uint32) error {
	ew := newErrWriter(w)
	io.WriteString(ew, "memory_initialization_radix = 16;\n")
	io.WriteString(ew, "memory_initialization_vector =\n")
	if len(words) == 0 {
		io.WriteString(ew, ";\n")
	}
	for i, word := range words {
		sep := ','
		if i == len(words)-1 {
			sep = ';'
		}
		fmt.Fprintf(ew, "%08x%c\n", word, sep)
	}
	return ew.err
}

func WriteBinary(w io.Writer, words []uint32) error {
	if err := binary.Write(w, binary.LittleEndian, words); err != nil {
		return errors.Wrap(err, "could not write binary")
	}
	return nil
}

func WriteListing(w io.Writer, p *assembler.Program) error {
	ew := newErrWriter(w)
	for i, word := range p.Words {
		l := p.Lines[i]
		fmt.Fprintf(ew, "(0x%04X) %08x  %s\n", l.Addr, word, l.Text)
	}
	return ew.err
}
