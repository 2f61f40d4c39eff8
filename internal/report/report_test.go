package report

import (
	"errors"
	"testing"
)

// memStore is a backing store that counts loads.
type memStore struct {
	runs  map[string]*RunResult
	loads int
}

func newMemStore() *memStore { return &memStore{runs: map[string]*RunResult{}} }

func (m *memStore) Save(r *RunResult) error {
	m.runs[r.ID] = r
	return nil
}

func (m *memStore) Load(id string) (*RunResult, error) {
	m.loads++
	r, ok := m.runs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return r, nil
}

func TestLRUStore_EvictsOldest(t *testing.T) {
	back := newMemStore()
	s := NewLRUStore(2, back)

	for _, id := range []string{"a", "b", "c"} {
		if err := s.Save(&RunResult{ID: id}); err != nil {
			t.Fatalf("Save(%s): %v", id, err)
		}
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}

	// "a" was evicted and must come from the backing store.
	if _, err := s.Load("a"); err != nil {
		t.Fatalf("Load(a): %v", err)
	}
	if back.loads != 1 {
		t.Errorf("backing loads = %d, want 1", back.loads)
	}

	// "c" is cached.
	if _, err := s.Load("c"); err != nil {
		t.Fatalf("Load(c): %v", err)
	}
	if back.loads != 1 {
		t.Errorf("backing loads = %d, want 1 after cache hit", back.loads)
	}
}

func TestLRUStore_Miss(t *testing.T) {
	s := NewLRUStore(1, newMemStore())
	if _, err := s.Load("missing"); err == nil {
		t.Fatal("expected error for unknown run")
	}
}

func TestDiskStore_RoundTrip(t *testing.T) {
	s := NewDiskStore(t.TempDir())
	in := &RunResult{
		ID:   "run-1",
		Kind: Named,
		Tasks: []TaskResult{{
			Name:     "deploy",
			Phase:    "custom",
			Commands: []CommandResult{{Argv: []string{"echo", "deploying"}, Stdout: "deploying\n"}},
		}},
	}
	if err := s.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := s.Load("run-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	task, ok := out.Task("deploy")
	if !ok {
		t.Fatal("task deploy missing after reload")
	}
	if task.Commands[0].Stdout != "deploying\n" {
		t.Errorf("Stdout = %q", task.Commands[0].Stdout)
	}
}

func TestDiskStore_RejectsPathIDs(t *testing.T) {
	s := NewDiskStore(t.TempDir())
	if _, err := s.Load("../etc/passwd"); err == nil {
		t.Fatal("expected error for a path-like run ID")
	}
}

func TestRunResult_Failed(t *testing.T) {
	ok := TaskResult{Name: "a", Commands: []CommandResult{{ExitCode: 0}}}
	bad := TaskResult{Name: "b", Commands: []CommandResult{{ExitCode: 0}, {ExitCode: 2}}}
	spawn := TaskResult{Name: "c", Commands: []CommandResult{{ExitCode: -1, Error: "not found"}}}

	if (&RunResult{Tasks: []TaskResult{ok}}).Failed() {
		t.Error("Failed() = true for a passing run")
	}
	if !(&RunResult{Tasks: []TaskResult{ok, bad}}).Failed() {
		t.Error("Failed() = false with a non-zero exit")
	}
	if !(&RunResult{Aborted: true}).Failed() {
		t.Error("Failed() = false for an aborted run")
	}
	if got := bad.Status(); got != "exit 2" {
		t.Errorf("Status() = %q, want exit 2", got)
	}
	if got := spawn.Status(); got != "not launched" {
		t.Errorf("Status() = %q, want not launched", got)
	}
	if got := ok.Status(); got != "ok" {
		t.Errorf("Status() = %q, want ok", got)
	}
}
