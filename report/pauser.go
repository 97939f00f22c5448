package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// Pauser gates the run between sections. Pause shows prompt and returns
// once the reader has acknowledged it.
type Pauser interface {
	Pause(prompt string) error
}

// NoPause never blocks. Used for non-interactive runs and tests.
type NoPause struct{}

// Pause implements Pauser.
func (NoPause) Pause(string) error { return nil }

// LinePauser writes the prompt to Out and waits for one line on In.
// End of input counts as acknowledgement so piped runs finish.
type LinePauser struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePauser returns a LinePauser reading from in and prompting on out.
func NewLinePauser(in io.Reader, out io.Writer) *LinePauser {
	return &LinePauser{in: bufio.NewReader(in), out: out}
}

// Pause implements Pauser.
func (p *LinePauser) Pause(prompt string) error {
	if _, err := fmt.Fprintln(p.out, prompt); err != nil {
		return fmt.Errorf("pause: %w", err)
	}
	_, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("pause: %w", err)
	}
	return nil
}

// RecordingPauser remembers every prompt without blocking.
type RecordingPauser struct {
	Prompts []string
}

// Pause implements Pauser.
func (p *RecordingPauser) Pause(prompt string) error {
	p.Prompts = append(p.Prompts, prompt)
	return nil
}
