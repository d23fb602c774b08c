package main

import (
	"rv32asm/cmd"
)

func main() {
	cmd.Execute()
}
