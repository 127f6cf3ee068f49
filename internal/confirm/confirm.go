package confirm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/ppiankov/toolfence/internal/model"
)

// Confirmer decides whether a pending tool call may proceed. Implementations
// choose the channel: a terminal prompt, a scripted answer sequence, or a
// fixed answer for automation.
type Confirmer interface {
	Confirm(call model.Call) bool
}

// Terminal prompts an operator on Out and reads one line from In. Anything
// but an explicit yes refuses, including empty input and read errors.
type Terminal struct {
	In  io.Reader
	Out io.Writer

	mu     sync.Mutex // serializes concurrent prompts on the shared stream
	reader *bufio.Reader
}

// NewTerminal returns a Terminal prompting on stderr and reading stdin.
// Prompts go to the diagnostic stream so they never mix with program data.
func NewTerminal() *Terminal {
	return &Terminal{In: os.Stdin, Out: os.Stderr}
}

// Confirm renders the call and blocks until the operator answers. There is
// no timeout; a caller needing cancellable confirmation must wrap this.
func (t *Terminal) Confirm(call model.Call) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.reader == nil {
		t.reader = bufio.NewReader(t.In)
	}

	fmt.Fprintf(t.Out, "\ntoolfence: %s\n", call)
	fmt.Fprint(t.Out, "Allow this call? [y/n]: ")

	line, err := t.reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return Affirmative(line)
}

// Affirmative reports whether an operator answer counts as approval:
// case-insensitive y or yes. Everything else refuses.
func Affirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// Script replays a fixed sequence of answers, for tests and non-interactive
// hosts. An exhausted script refuses.
type Script struct {
	mu      sync.Mutex
	answers []bool
	next    int

	// Calls records every call presented for confirmation, in order.
	Calls []model.Call
}

// NewScript returns a Script that answers each confirmation in turn.
func NewScript(answers ...bool) *Script {
	return &Script{answers: answers}
}

func (s *Script) Confirm(call model.Call) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Calls = append(s.Calls, call)
	if s.next >= len(s.answers) {
		return false
	}
	answer := s.answers[s.next]
	s.next++
	return answer
}

type always bool

func (a always) Confirm(model.Call) bool { return bool(a) }

// Always returns a Confirmer with a fixed answer.
func Always(answer bool) Confirmer { return always(answer) }
