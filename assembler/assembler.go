package assembler

import (
	"io"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Line records where an emitted word came from.
type Line struct {
	Addr uint32
	Num  int
	Text string
}

// Program is the result of a successful assembly. Words[i] was produced by
// Lines[i]; addresses start at 0 and step by 4.
type Program struct {
	Words  []uint32
	Lines  []Line
	Labels map[string]uint32
}

// Assemble runs both passes over src. Any error aborts the whole assembly and no
// words are returned.
func Assemble(src string) (*Program, error) {
	lines := splitLines(src)
	labels, err := firstPass(lines)
	if err != nil {
		return nil, err
	}
	return secondPass(lines, labels)
}

// AssembleReader reads all of r and assembles it.
func AssembleReader(r io.Reader) (*Program, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading source")
	}
	return Assemble(string(src))
}

// firstPass records the address of every label: the address of the next
// instruction line after it.
func firstPass(lines []sourceLine) (map[string]uint32, error) {
	labels := make(map[string]uint32)
	var addr uint32
	for _, l := range lines {
		if l.kind == lineLabel {
			name := l.label()
			if name == "" {
				return nil, &LineError{Num: l.num, Text: l.raw, Err: &UnsupportedOperandShapeError{Line: l.raw}}
			}
			if _, ok := labels[name]; ok {
				return nil, &LineError{Num: l.num, Text: l.raw, Err: &DuplicateLabelError{Name: name}}
			}
			labels[name] = addr
			glog.V(2).Infof("(0x%X) %s", addr, l.text)
		}
		addr += l.size()
	}
	return labels, nil
}

// secondPass encodes every instruction line against the label table built by
// firstPass. labels is not modified.
func secondPass(lines []sourceLine, labels map[string]uint32) (*Program, error) {
	p := &Program{Labels: labels}
	var addr uint32
	for _, l := range lines {
		if l.kind == lineInstr {
			mnemonic, ops := tokenize(l.text)
			in := instruction{mnemonic: mnemonic, ops: ops, addr: addr, line: l.raw, labels: labels}
			word, err := in.encode()
			if err != nil {
				return nil, &LineError{Num: l.num, Text: l.raw, Err: err}
			}
			glog.V(3).Infof("(0x%X) %08x %s", addr, word, l.text)
			p.Words = append(p.Words, word)
			p.Lines = append(p.Lines, Line{Addr: addr, Num: l.num, Text: l.text})
		}
		addr += l.size()
	}
	return p, nil
}
