package testing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/testing/internal/testbed"
)

func TestCaptureSnapshot(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.Render(element.H("ul", nil,
		element.H("li", element.Props{"key": "a"}, "one"),
		element.H("li", nil, "two", element.H("b", nil, "!")),
	))

	snap := tester.CaptureSnapshot()

	if snap.HTML != "<ul><li>one</li><li>two<b>!</b></li></ul>" {
		t.Errorf("unexpected html %q", snap.HTML)
	}
	want := []string{
		"HostRoot",
		"  HostComponent(ul)",
		`    HostComponent(li key="a")`,
		"    HostComponent(li)",
		`      HostText("two")`,
		"      HostComponent(b)",
	}
	if diff := (&Snapshot{HTML: snap.HTML, Fibers: want}).Diff(snap); diff != "" {
		t.Errorf("fiber tree mismatch:\n%s", diff)
	}
}

func TestSnapshot_BeforeRender(t *testing.T) {
	tester := NewTesterWithT(t)
	snap := tester.CaptureSnapshot()
	if snap.HTML != "" || snap.Fibers != nil {
		t.Errorf("expected empty snapshot, got %+v", snap)
	}
}

func TestSnapshot_Diff(t *testing.T) {
	tester := NewTesterWithT(t)

	tester.Render(element.H(testbed.Counter, nil))
	a := tester.CaptureSnapshot()
	b := tester.CaptureSnapshot()
	if diff := a.Diff(b); diff != "" {
		t.Errorf("expected no diff for identical snapshots, got:\n%s", diff)
	}

	tester.Click(ByTag("button"))
	c := tester.CaptureSnapshot()
	if diff := a.Diff(c); diff == "" {
		t.Error("expected diff after click")
	}
}

func TestSnapshot_MatchesFile(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.Render(element.H(testbed.Counter, nil))

	tester.CaptureSnapshot().MatchesFile(t, filepath.Join("testdata", "counter.snapshot.json"))
}

func TestSnapshot_UpdateAndMatch(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.Render(element.H("p", element.Props{"title": "x"}, "hi"))
	snap := tester.CaptureSnapshot()

	path := filepath.Join(t.TempDir(), "nested", "p.snapshot.json")
	if err := snap.UpdateFile(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `<p title="x">hi</p>`) {
		t.Errorf("expected unescaped html in file, got:\n%s", data)
	}

	snap.MatchesFile(t, path)
}

// recordingT captures failures from MatchesFile.
type recordingT struct {
	fatal  string
	errors []string
}

func (r *recordingT) Helper()      {}
func (r *recordingT) Name() string { return "TestRecording" }
func (r *recordingT) Fatalf(format string, args ...any) {
	r.fatal = fmt.Sprintf(format, args...)
}
func (r *recordingT) Errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func TestSnapshot_MatchesFileFailures(t *testing.T) {
	t.Setenv(UpdateSnapshotsEnv, "")
	snap := &Snapshot{HTML: "<p>a</p>"}
	dir := t.TempDir()

	rt := &recordingT{}
	snap.MatchesFile(rt, filepath.Join(dir, "missing.json"))
	if !strings.Contains(rt.fatal, "snapshot file missing") {
		t.Errorf("expected missing-file failure, got %q", rt.fatal)
	}

	other := filepath.Join(dir, "other.json")
	if err := (&Snapshot{HTML: "<p>b</p>"}).UpdateFile(other); err != nil {
		t.Fatal(err)
	}
	rt = &recordingT{}
	snap.MatchesFile(rt, other)
	if len(rt.errors) != 1 || !strings.Contains(rt.errors[0], UpdateSnapshotsEnv) {
		t.Errorf("expected mismatch with update hint, got %v", rt.errors)
	}
}
