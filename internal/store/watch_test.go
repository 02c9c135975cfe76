package store

import (
	"context"
	"testing"
	"time"
)

func TestWatch_ReportsSolutionFilesOnly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := Store{Dir: t.TempDir(), Backend: JSONBackend{}}
	w, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	if err := s.Save(ctx, demoTree(t, "Demo")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	waitFor(t, w, Change{Name: "Demo", Kind: ChangeWritten})

	if err := s.Delete(ctx, "Demo"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	waitFor(t, w, Change{Name: "Demo", Kind: ChangeRemoved})
}

func waitFor(t *testing.T, w *Watcher, want Change) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case got, ok := <-w.Changes():
			if !ok {
				t.Fatalf("watcher closed before %+v", want)
			}
			if got.Name != "Demo" {
				t.Fatalf("unexpected change for %q (temp files must be ignored)", got.Name)
			}
			if got == want {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %+v", want)
		}
	}
}
