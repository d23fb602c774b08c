package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"rv32asm/assembler"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm [hexFile]",
	Short: "Decode hex words back into assembly",
	Long: `Disasm reads words written by rv32asm in hex or coe format and prints
one decoded instruction per line. Branch and jump targets are shown as byte
displacements.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := openInput(args)
		if err != nil {
			return err
		}
		defer in.Close()
		return disassemble(os.Stdout, in)
	},
}

func init() {
	rootCmd.AddCommand(disasmCmd)
}

// readWords parses one hex word per line. The coe header and the ',' / ';'
// terminators are skipped.
func readWords(r io.Reader) ([]uint32, error) {
	var words []uint32
	scanner := bufio.NewScanner(r)
	num := 0
	for scanner.Scan() {
		num++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.Contains(line, "=") {
			continue
		}
		line = strings.TrimRight(line, ",;")
		if line == "" {
			continue
		}
		v, err := strconv.ParseUint(line, 16, 32)
		if err != nil {
			return nil, errors.Errorf("line %d: bad word %q", num, line)
		}
		words = append(words, uint32(v))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading words")
	}
	return words, nil
}

func disassemble(w io.Writer, r io.Reader) error {
	words, err := readWords(r)
	if err != nil {
		return err
	}
	for i, word := range words {
		text, err := assembler.Disassemble(word)
		if err != nil {
			return errors.Wrapf(err, "word %d", i)
		}
		if _, err := fmt.Fprintf(w, "(0x%04X) %08x  %s\n", i*4, word, text); err != nil {
			return errors.Wrap(err, "write failed")
		}
	}
	return nil
}
