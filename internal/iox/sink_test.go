package iox

import (
	"bytes"
	"fmt"
	"testing"
)

func TestSinkWrites(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf)

	fmt.Fprintf(sink, "hello\n")
	if buf.String() != "hello\n" {
		t.Errorf("expected write to reach target, got %q", buf.String())
	}
}

func TestSilenceAndRestore(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf)

	restore := sink.Silence()
	fmt.Fprintf(sink, "suppressed\n")
	restore()
	fmt.Fprintf(sink, "visible\n")

	if buf.String() != "visible\n" {
		t.Errorf("expected only post-restore output, got %q", buf.String())
	}
}

func TestRestoreRunsOnEveryExitPath(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf)

	// A failing operation inside the silenced region must still restore
	// the original target through the deferred call.
	err := func() error {
		restore := sink.Silence()
		defer restore()
		fmt.Fprintf(sink, "suppressed\n")
		return fmt.Errorf("operation failed")
	}()
	if err == nil {
		t.Fatal("expected simulated failure")
	}

	fmt.Fprintf(sink, "after\n")
	if buf.String() != "after\n" {
		t.Errorf("expected sink restored after failure path, got %q", buf.String())
	}
}

func TestRestoreIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf)

	restore := sink.Silence()
	restore()

	// Calling a stale restore again must not clobber a newer silence.
	restore2 := sink.Silence()
	restore()
	fmt.Fprintf(sink, "still silenced\n")
	restore2()
	fmt.Fprintf(sink, "done\n")

	if buf.String() != "done\n" {
		t.Errorf("stale restore corrupted sink state, got %q", buf.String())
	}
}
