package confirm

import (
	"strings"
	"testing"

	"github.com/ppiankov/toolfence/internal/model"
)

func TestAffirmative(t *testing.T) {
	cases := []struct {
		answer string
		want   bool
	}{
		{"y", true},
		{"Y", true},
		{"yes", true},
		{"YES", true},
		{" y \n", true},
		{"n", false},
		{"no", false},
		{"", false},
		{"\n", false},
		{"yeah", false},
		{"ok", false},
	}
	for _, tc := range cases {
		if got := Affirmative(tc.answer); got != tc.want {
			t.Errorf("Affirmative(%q) = %v, want %v", tc.answer, got, tc.want)
		}
	}
}

func TestTerminalApproves(t *testing.T) {
	var out strings.Builder
	term := &Terminal{In: strings.NewReader("y\n"), Out: &out}

	call := model.Call{Tool: "send_message", Args: map[string]any{"text": "hi"}}
	if !term.Confirm(call) {
		t.Error("expected approval for y")
	}
	if !strings.Contains(out.String(), `send_message(text="hi")`) {
		t.Errorf("prompt missing call rendering: %q", out.String())
	}
	if !strings.Contains(out.String(), "[y/n]") {
		t.Errorf("prompt missing y/n question: %q", out.String())
	}
}

func TestTerminalRefusesOnAnythingElse(t *testing.T) {
	for _, input := range []string{"n\n", "\n", "whatever\n"} {
		term := &Terminal{In: strings.NewReader(input), Out: &strings.Builder{}}
		if term.Confirm(model.Call{Tool: "t"}) {
			t.Errorf("input %q: expected refusal", input)
		}
	}
}

func TestTerminalRefusesOnEOF(t *testing.T) {
	term := &Terminal{In: strings.NewReader(""), Out: &strings.Builder{}}
	if term.Confirm(model.Call{Tool: "t"}) {
		t.Error("expected refusal on closed input")
	}
}

func TestTerminalConsumesOneLinePerPrompt(t *testing.T) {
	term := &Terminal{In: strings.NewReader("y\nn\ny\n"), Out: &strings.Builder{}}
	answers := []bool{
		term.Confirm(model.Call{Tool: "a"}),
		term.Confirm(model.Call{Tool: "b"}),
		term.Confirm(model.Call{Tool: "c"}),
	}
	want := []bool{true, false, true}
	for i := range want {
		if answers[i] != want[i] {
			t.Errorf("prompt %d: got %v, want %v", i, answers[i], want[i])
		}
	}
}

func TestScript(t *testing.T) {
	s := NewScript(true, false)
	if !s.Confirm(model.Call{Tool: "a"}) {
		t.Error("first answer should approve")
	}
	if s.Confirm(model.Call{Tool: "b"}) {
		t.Error("second answer should refuse")
	}
	// Exhausted script refuses.
	if s.Confirm(model.Call{Tool: "c"}) {
		t.Error("exhausted script should refuse")
	}
	if len(s.Calls) != 3 || s.Calls[1].Tool != "b" {
		t.Errorf("expected recorded calls, got %+v", s.Calls)
	}
}

func TestAlways(t *testing.T) {
	if !Always(true).Confirm(model.Call{Tool: "t"}) {
		t.Error("Always(true) should approve")
	}
	if Always(false).Confirm(model.Call{Tool: "t"}) {
		t.Error("Always(false) should refuse")
	}
}
