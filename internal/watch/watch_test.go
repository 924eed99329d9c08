package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bimmerbailey/clpack/internal/generator"
	"github.com/fsnotify/fsnotify"
)

type build struct {
	spec   generator.KernelSpec
	result *generator.Result
	err    error
}

func startWatcher(t *testing.T, specs []generator.KernelSpec, outDir string) (<-chan build, context.CancelFunc, <-chan error) {
	t.Helper()

	builds := make(chan build, 16)
	gen := generator.New(nil, generator.WithOutputDir(outDir))
	w := New(gen, nil, Options{
		Specs:    specs,
		Debounce: 20 * time.Millisecond,
		Initial:  true,
		OnResult: func(spec generator.KernelSpec, r *generator.Result, err error) {
			builds <- build{spec: spec, result: r, err: err}
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx)
	}()
	return builds, cancel, done
}

func waitBuild(t *testing.T, builds <-chan build) build {
	t.Helper()
	select {
	case b := <-builds:
		return b
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for build")
		return build{}
	}
}

func TestWatcher_RebuildsOnWrite(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	source := filepath.Join(srcDir, "k.c")
	if err := os.WriteFile(source, []byte("int first = 1;\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	builds, cancel, done := startWatcher(t, []generator.KernelSpec{{Source: source}}, outDir)

	initial := waitBuild(t, builds)
	if initial.err != nil {
		t.Fatalf("initial build error = %v", initial.err)
	}
	if initial.result.Text != "int first=1;" {
		t.Errorf("initial text = %q", initial.result.Text)
	}

	// Give the watcher time to register before changing the file.
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(source, []byte("int second = 2;\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	rebuilt := waitBuild(t, builds)
	if rebuilt.err != nil {
		t.Fatalf("rebuild error = %v", rebuilt.err)
	}
	if rebuilt.result.Text != "int second=2;" {
		t.Errorf("rebuilt text = %q", rebuilt.result.Text)
	}

	def, err := os.ReadFile(filepath.Join(outDir, "opencl___k.c"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(def), `"int second=2;"`) {
		t.Errorf("artifact not regenerated:\n%s", def)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	srcDir := t.TempDir()
	source := filepath.Join(srcDir, "k.c")
	if err := os.WriteFile(source, []byte("int x;\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	builds, cancel, _ := startWatcher(t, []generator.KernelSpec{{Source: source}}, t.TempDir())
	defer cancel()

	waitBuild(t, builds)
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(srcDir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	select {
	case b := <-builds:
		t.Errorf("unexpected rebuild of %s", b.spec.Name())
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_ReportsBuildErrors(t *testing.T) {
	srcDir := t.TempDir()
	source := filepath.Join(srcDir, "k.c")
	if err := os.WriteFile(source, []byte("int x;\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	// Output directory does not exist, so every build fails.
	builds, cancel, done := startWatcher(t, []generator.KernelSpec{{Source: source}}, filepath.Join(srcDir, "missing"))

	b := waitBuild(t, builds)
	if b.err == nil {
		t.Fatal("expected build error")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() should keep going after build errors, got %v", err)
	}
}

func TestHandleEvent(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "k.c")
	w := New(generator.New(nil), nil, Options{Specs: []generator.KernelSpec{{Source: source}}})
	abs, _ := filepath.Abs(source)
	w.bySrc[abs] = 0

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write to source", fsnotify.Event{Name: source, Op: fsnotify.Write}, true},
		{"create source", fsnotify.Event{Name: source, Op: fsnotify.Create}, true},
		{"chmod source", fsnotify.Event{Name: source, Op: fsnotify.Chmod}, false},
		{"remove source", fsnotify.Event{Name: source, Op: fsnotify.Remove}, false},
		{"write other", fsnotify.Event{Name: filepath.Join(dir, "other.c"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.handleEvent(tt.event); got != tt.want {
				t.Errorf("handleEvent() = %v, want %v", got, tt.want)
			}
		})
	}
}
