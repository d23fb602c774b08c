package assembler

import "fmt"

// UnknownRegisterError reports a register operand that is neither xN nor an
// ABI name.
type UnknownRegisterError struct {
	Name string
}

func (e *UnknownRegisterError) Error() string {
	return fmt.Sprintf("unknown register %q", e.Name)
}

type UnknownOpcodeError struct {
	Name string
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode %q", e.Name)
}

type MalformedLiteralError struct {
	Token string
}

func (e *MalformedLiteralError) Error() string {
	return fmt.Sprintf("malformed literal %q", e.Token)
}

type UndefinedLabelError struct {
	Name string
}

func (e *UndefinedLabelError) Error() string {
	return fmt.Sprintf("undefined label %q", e.Name)
}

type DuplicateLabelError struct {
	Name string
}

func (e *DuplicateLabelError) Error() string {
	return fmt.Sprintf("label %q already defined", e.Name)
}

// UnsupportedOperandShapeError is returned when a known mnemonic is given an
// operand count or operand form it has no rule for.
type UnsupportedOperandShapeError struct {
	Line string
}

func (e *UnsupportedOperandShapeError) Error() string {
	return fmt.Sprintf("unsupported operands in %q", e.Line)
}

// LineError attaches the source position to an assembly error.
type LineError struct {
	Num  int    // 1-based
	Text string // verbatim source line
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v\n\t%s", e.Num, e.Err, e.Text)
}

func (e *LineError) Cause() error  { return e.Err }
func (e *LineError) Unwrap() error { return e.Err }
