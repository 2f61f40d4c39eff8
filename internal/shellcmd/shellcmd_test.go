package shellcmd

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func envOf(vars map[string]string) func(string) string {
	return func(name string) string { return vars[name] }
}

func TestExpand_SingleCommand(t *testing.T) {
	got, err := Expand("go build -o bin/app ./cmd/app", envOf(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]string{{"go", "build", "-o", "bin/app", "./cmd/app"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Expand mismatch (-want +got):\n%s", diff)
	}
}

func TestExpand_SplitsOnAnd(t *testing.T) {
	got, err := Expand("mkdir -p out&&cp a out/ &&  echo done", envOf(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]string{
		{"mkdir", "-p", "out"},
		{"cp", "a", "out/"},
		{"echo", "done"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Expand mismatch (-want +got):\n%s", diff)
	}
}

func TestExpand_Variables(t *testing.T) {
	env := envOf(map[string]string{
		"HOME":   "/home/baker",
		"TARGET": "release",
		"CC":     "clang",
	})
	got, err := Expand("$CC -o $HOME/bin/app-${TARGET} main.c", env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]string{{"clang", "-o", "/home/baker/bin/app-release", "main.c"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Expand mismatch (-want +got):\n%s", diff)
	}
}

func TestExpand_Tilde(t *testing.T) {
	env := envOf(map[string]string{"HOME": "/home/baker"})
	got, err := Expand("ls ~/src", env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]string{{"ls", "/home/baker/src"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Expand mismatch (-want +got):\n%s", diff)
	}
}

func TestExpand_UnsetVariableIsEmpty(t *testing.T) {
	got, err := Expand("echo pre$UNSET_VAR_XYZ post", envOf(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]string{{"echo", "pre", "post"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Expand mismatch (-want +got):\n%s", diff)
	}
}

func TestExpand_PlainTokensUntouched(t *testing.T) {
	got, err := Expand(`echo "quoted" it's *.go`, envOf(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]string{{"echo", `"quoted"`, "it's", "*.go"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Expand mismatch (-want +got):\n%s", diff)
	}
}

func TestExpand_EmptySegment(t *testing.T) {
	for _, cmd := range []string{"make &&", "&& make", "make && && test", "   "} {
		_, err := Expand(cmd, envOf(nil))
		if !errors.Is(err, ErrEmptyCommand) {
			t.Errorf("Expand(%q) error = %v, want ErrEmptyCommand", cmd, err)
		}
	}
}

func TestExpand_EmptyExecutable(t *testing.T) {
	_, err := Expand("$NOT_SET_ANYWHERE --flag", envOf(nil))
	if !errors.Is(err, ErrEmptyCommand) {
		t.Errorf("error = %v, want ErrEmptyCommand", err)
	}
}

func TestSplit(t *testing.T) {
	got := Split("a && b&&c")
	want := []string{"a ", " b", "c"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Split mismatch (-want +got):\n%s", diff)
	}
}
