package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"fcsmerge/internal/consensus"
)

const confirmPrompt = "\nPlease confirm concatenation [Y/n]: "

// promptGate asks on out and reads one answer line from in. An empty answer or
// "y" confirms; anything else, including end of input, declines.
type promptGate struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

func newPromptGate(in io.Reader, out io.Writer, assumeYes bool) *promptGate {
	return &promptGate{in: bufio.NewReader(in), out: out, assumeYes: assumeYes}
}

func (g *promptGate) Confirm(dropped []consensus.Entry) (bool, error) {
	if g.assumeYes {
		return true, nil
	}
	fmt.Fprint(g.out, confirmPrompt)
	line, err := g.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		fmt.Fprintln(g.out)
		return false, nil
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "" || answer == "y", nil
}
