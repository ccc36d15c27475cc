package errors

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/sift-dev/sift/pkg/compiler"
	"github.com/sift-dev/sift/pkg/router"
)

func compileErr(t *testing.T, src string) error {
	t.Helper()
	_, err := compiler.Compile("unit.sft", src)
	if err == nil {
		t.Fatal("Compile() succeeded, want error")
	}
	return err
}

func TestConvertLexErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"unexpected char", `component C { @ } <div/>`, "S001"},
		{"unterminated string", `component C { state { s: string = "x } } <div/>`, "S002"},
		{"unterminated template", "<p>{`open", "S003"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Convert(compileErr(t, tt.src))
			if len(out) != 1 {
				t.Fatalf("Convert() = %d errors, want 1", len(out))
			}
			if out[0].Code != tt.code {
				t.Errorf("code = %s, want %s", out[0].Code, tt.code)
			}
			if out[0].Location == nil || out[0].Location.File != "unit.sft" {
				t.Errorf("location = %+v", out[0].Location)
			}
		})
	}
}

func TestConvertParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"unexpected token", `component { } <div/>`, "S101"},
		{"mismatched tag", `component C {} <div><p>x</span></div>`, "S102"},
		{"unknown type", `component C { state { n: float } } <div/>`, "S103"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Convert(compileErr(t, tt.src))
			if len(out) != 1 || out[0].Code != tt.code {
				t.Errorf("Convert() = %v, want one %s", out, tt.code)
			}
		})
	}
}

func TestConvertSemanticErrorList(t *testing.T) {
	err := compileErr(t, `component C {
  state { count: number = "oops" }
  export missing
} <p>{nope}</p>`)

	out := Convert(err)
	if len(out) != 3 {
		t.Fatalf("Convert() = %d errors, want 3", len(out))
	}
	codes := map[string]bool{}
	for _, se := range out {
		codes[se.Code] = true
		if se.Location == nil {
			t.Errorf("%s has no location", se.Code)
		}
	}
	for _, want := range []string{"S202", "S203", "S204"} {
		if !codes[want] {
			t.Errorf("code %s missing from %v", want, codes)
		}
	}
}

func TestConvertRouteError(t *testing.T) {
	_, err := router.BuildRouteTree([]string{
		"blog/[a]/page.sft",
		"blog/[b]/page.sft",
	})
	if err == nil {
		t.Fatal("BuildRouteTree() succeeded, want error")
	}

	out := Convert(err)
	if len(out) != 1 {
		t.Fatalf("Convert() = %d errors, want 1", len(out))
	}
	if out[0].Code != "S302" {
		t.Errorf("code = %s, want S302", out[0].Code)
	}
	if out[0].Location == nil || !strings.Contains(out[0].Location.File, "page.sft") {
		t.Errorf("location = %+v", out[0].Location)
	}
}

func TestConvertUnknownError(t *testing.T) {
	out := Convert(stderrors.New("something else"))
	if len(out) != 1 {
		t.Fatalf("Convert() = %d errors, want 1", len(out))
	}
	if out[0].Category != CategoryCLI || out[0].Message != "something else" {
		t.Errorf("converted = %+v", out[0])
	}
	if out[0].Wrapped == nil {
		t.Error("original error not preserved")
	}
}

func TestConvertNil(t *testing.T) {
	if out := Convert(nil); out != nil {
		t.Errorf("Convert(nil) = %v", out)
	}
}
