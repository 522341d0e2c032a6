package main

import (
	"flag"
	"io"
	"reflect"
	"testing"
)

func TestParseArgsInterspersed(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		positional []string
		fill       bool
		out        string
	}{
		{"flags after input", []string{"model.obj", "-fill", "-o", "x.nbt"}, []string{"model.obj"}, true, "x.nbt"},
		{"flags before input", []string{"-o", "y.nbt", "model.obj"}, []string{"model.obj"}, false, "y.nbt"},
		{"mixed", []string{"-fill", "a.obj", "-o", "z.nbt", "b"}, []string{"a.obj", "b"}, true, "z.nbt"},
		{"no args", nil, nil, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			fill := fs.Bool("fill", false, "")
			out := fs.String("o", "", "")

			positional, err := parseArgs(fs, tt.args)
			if err != nil {
				t.Fatalf("parseArgs: %v", err)
			}
			if !reflect.DeepEqual(positional, tt.positional) {
				t.Errorf("positional = %v, want %v", positional, tt.positional)
			}
			if *fill != tt.fill {
				t.Errorf("fill = %v, want %v", *fill, tt.fill)
			}
			if *out != tt.out {
				t.Errorf("o = %q, want %q", *out, tt.out)
			}
		})
	}
}

func TestParseArgsUnknownFlag(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	if _, err := parseArgs(fs, []string{"model.obj", "-bogus"}); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Errorf("shortID = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID = %q", got)
	}
}
