package commands

import (
	"flag"
	"io"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line   string
		want   []string
		wantOK bool
	}{
		{"grab crate", []string{"grab", "crate"}, true},
		{"  step   -n 3 ", []string{"step", "-n", "3"}, true},
		{"", nil, false},
		{"   ", nil, false},
		{"# comment", nil, false},
	}
	for _, tt := range tests {
		args, ok := Parse(tt.line)
		if ok != tt.wantOK || strings.Join(args, "|") != strings.Join(tt.want, "|") {
			t.Errorf("Parse(%q) = %v, %v; want %v, %v", tt.line, args, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRegistry_Execute(t *testing.T) {
	r := NewRegistry()
	fs := flag.NewFlagSet("step", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	n := fs.Int("n", 1, "ticks")
	var got []int
	var rest []string
	r.Register("step", fs, func() error {
		got = append(got, *n)
		rest = fs.Args()
		return nil
	})

	if err := r.Execute([]string{"step", "-n", "5", "extra"}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if err := r.Execute([]string{"step"}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(got) != 2 || got[0] != 5 || got[1] != 1 {
		t.Errorf("runs saw n = %v, want [5 1] (flags reset between lines)", got)
	}
	if len(rest) != 0 {
		t.Errorf("Args() = %v, want none on second run", rest)
	}
}

func TestRegistry_ExecuteErrors(t *testing.T) {
	r := NewRegistry()
	fs := flag.NewFlagSet("grab", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	r.Register("grab", fs, func() error { return nil })

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"empty", nil, "missing subcommand"},
		{"unknown", []string{"fly"}, "unknown command: fly"},
		{"bad flag", []string{"grab", "-nope"}, "grab:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Execute(tt.args)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Execute(%v) error = %v, want containing %q", tt.args, err, tt.want)
			}
		})
	}
}
