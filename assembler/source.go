package assembler

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// InstrBytes is the size of every emitted instruction.
const InstrBytes uint32 = 4

var spaceCollapse = regexp.MustCompile(`\s+`)

type lineKind uint8

const (
	lineBlank lineKind = iota
	lineLabel
	lineInstr
)

// sourceLine is one line of input after comment stripping.
type sourceLine struct {
	num  int    // 1-based
	raw  string // as written
	text string // comment stripped, trimmed, whitespace collapsed
	kind lineKind
}

// size is how far the address counter moves past this line. Both passes use it.
func (l sourceLine) size() uint32 {
	if l.kind == lineInstr {
		return InstrBytes
	}
	return 0
}

func (l sourceLine) label() string {
	return strings.TrimSpace(strings.TrimSuffix(l.text, ":"))
}

// classifyLine strips a # comment and decides what the line holds.
func classifyLine(num int, raw string) sourceLine {
	text := raw
	if idx := strings.Index(text, "#"); idx != -1 {
		text = text[:idx]
	}
	text = spaceCollapse.ReplaceAllString(strings.TrimSpace(text), " ")
	l := sourceLine{num: num, raw: raw, text: text}
	switch {
	case text == "":
		l.kind = lineBlank
	case strings.HasSuffix(text, ":"):
		l.kind = lineLabel
	default:
		l.kind = lineInstr
	}
	return l
}

func splitLines(src string) []sourceLine {
	raw := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	return lo.Map(raw, func(s string, i int) sourceLine {
		return classifyLine(i+1, s)
	})
}

// tokenize splits an instruction into its lowercased mnemonic and trimmed
// comma separated operands.
func tokenize(text string) (string, []string) {
	mnemonic, rest, _ := strings.Cut(text, " ")
	mnemonic = strings.ToLower(mnemonic)
	if strings.TrimSpace(rest) == "" {
		return mnemonic, nil
	}
	ops := lo.Map(strings.Split(rest, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return mnemonic, ops
}
