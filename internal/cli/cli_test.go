package cli

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gantt2img/internal/logging"
	"gantt2img/pkg/paint"
	"gantt2img/pkg/render"
	"gantt2img/pkg/store"
	"gantt2img/pkg/timeunit"
)

const sampleCSV = `id,name,type,start,end,depends_on
a,Design,task,2024-01-01,2024-01-05,
b,Build,task,2024-01-06,2024-01-20,a
m,Launch,milestone,2024-01-21,,b
`

// executeCommand runs a fresh command tree with args and returns captured stdout and stderr.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func writeInput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))
	return path
}

func TestRootCommand(t *testing.T) {
	root := NewRootCommand()
	assert.Equal(t, "gantt2img", root.Use)

	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["render"])
	assert.True(t, names["curve"])
}

func TestRenderSVG(t *testing.T) {
	in := writeInput(t)
	out := filepath.Join(t.TempDir(), "plan.svg")

	stdout, _, err := executeCommand(t, "render", in, "-o", out, "--now", "2024-01-10", "--select", "a")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	doc := string(data)
	assert.Contains(t, doc, `viewBox="0 0 1200 140"`)
	assert.Contains(t, doc, "Design")
	assert.Contains(t, doc, `<g transform="translate(0 50)">`)

	assert.Contains(t, stdout, out)
	assert.Contains(t, stdout, "1-3 of 3")
	assert.Contains(t, stdout, "2 drawn")
}

func TestRenderPNG(t *testing.T) {
	in := writeInput(t)
	out := filepath.Join(t.TempDir(), "plan.png")

	_, _, err := executeCommand(t, "render", in, "-o", out, "--width", "600", "--ratio", "2", "--curved", "--hide-now")
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	// three 30px rows below a 50px header, doubled
	assert.Equal(t, 1200, img.Bounds().Dx())
	assert.Equal(t, 280, img.Bounds().Dy())
}

func TestRenderExplicitView(t *testing.T) {
	in := writeInput(t)
	out := filepath.Join(t.TempDir(), "plan.svg")

	stdout, _, err := executeCommand(t, "render", in, "-o", out,
		"--zoom", "40", "--center", "2024-01-10", "--pan", "100", "--marker", "2024-01-12",
		"--height", "60", "--scroll", "30", "--collapse", "g", "--disable", "m")
	require.NoError(t, err)
	assert.Contains(t, stdout, "zoom")
	assert.Contains(t, stdout, "40.0")
	assert.Contains(t, stdout, "2-3 of 3")
}

func TestRenderErrors(t *testing.T) {
	in := writeInput(t)
	dir := t.TempDir()

	_, _, err := executeCommand(t, "render", in, "-o", filepath.Join(dir, "plan.gif"))
	assert.ErrorIs(t, err, ErrUnsupportedOutput)

	_, _, err = executeCommand(t, "render", filepath.Join(dir, "missing.csv"), "-o", filepath.Join(dir, "x.svg"))
	assert.ErrorContains(t, err, "error opening input file")

	_, _, err = executeCommand(t, "render", in, "-o", filepath.Join(dir, "x.svg"), "--center", "someday")
	assert.ErrorContains(t, err, "invalid --center")

	_, _, err = executeCommand(t, "render")
	assert.Error(t, err)
}

func TestRenderWithConfigFile(t *testing.T) {
	in := writeInput(t)
	dir := t.TempDir()
	cfg := filepath.Join(dir, "style.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("rows:\n  height: 40\n"), 0o644))

	out := filepath.Join(dir, "plan.svg")
	_, _, err := executeCommand(t, "render", in, "-c", cfg, "-o", out)
	require.NoError(t, err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `viewBox="0 0 1200 170"`)

	require.NoError(t, os.WriteFile(cfg, []byte("rows:\n  height: -1\n"), 0o644))
	_, _, err = executeCommand(t, "render", in, "-c", cfg, "-o", out)
	assert.ErrorContains(t, err, "rows.height")
}

func TestRenderEnvironment(t *testing.T) {
	in := writeInput(t)
	out := filepath.Join(t.TempDir(), "plan.svg")
	t.Setenv("GANTT2IMG_RENDER_WIDTH", "400")
	t.Setenv("GANTT2IMG_LOG_LEVEL", "debug")

	_, stderr, err := executeCommand(t, "render", in, "-o", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `viewBox="0 0 400 140"`)
	assert.Contains(t, stderr, "frame rendered")
	assert.Contains(t, stderr, "cache state")
}

func TestOutputFilename(t *testing.T) {
	assert.Equal(t, "out.png", outputFilename("data/plan.csv", "out.png"))
	assert.Equal(t, "plan.svg", outputFilename("data/plan.csv", ""))
	assert.Equal(t, "plan.svg", outputFilename("plan.yaml", ""))
}

func TestPrintSummary(t *testing.T) {
	s := summary{
		Output: "plan.svg",
		Width:  800,
		Height: 140,
		Ratio:  2,
		Total:  3,
		Zoom:   42.5,
		Unit:   "Days",
		Range:  store.TimeRange{Start: 0, End: float64(2*timeunit.DayMs + 3*timeunit.HourMs)},
		Stats: render.Stats{
			Rows:         store.RowRange{First: 0, Last: 2},
			Elements:     3,
			Dependencies: paint.DependencyStats{Drawn: 1, Skipped: 2, Detours: 1},
		},
		Loc: time.UTC,
	}
	var buf bytes.Buffer
	printSummary(&buf, s)
	out := buf.String()

	assert.Contains(t, out, "plan.svg")
	assert.Contains(t, out, "800x140 @2x")
	assert.Contains(t, out, "1-3 of 3")
	assert.Contains(t, out, "1 drawn, 1 detoured, 2 skipped")
	assert.Contains(t, out, "42.5 (Days)")
	assert.Contains(t, out, "1970-01-01 00:00")
	assert.Contains(t, out, "(2d 3h)")

	buf.Reset()
	printSummary(&buf, summary{Output: "empty.svg", Stats: render.Stats{Rows: store.RowRange{First: 0, Last: -1}}})
	assert.Contains(t, buf.String(), "none of 0")
}

func TestCurveCommand(t *testing.T) {
	stdout, _, err := executeCommand(t, "curve", "steep", "--steps", "4", "--verify")
	require.NoError(t, err)
	assert.Contains(t, stdout, `zoom curve "steep"`)
	assert.Contains(t, stdout, "px/day")
	assert.Contains(t, stdout, "100.0")
	assert.Contains(t, stdout, "Years")
	assert.Contains(t, stdout, "inverse holds")

	stdout, _, err = executeCommand(t, "curve")
	require.NoError(t, err)
	assert.Contains(t, stdout, `zoom curve "default"`)

	_, _, err = executeCommand(t, "curve", "wobbly")
	assert.ErrorContains(t, err, "unknown zoom preset")
}

func TestWatchCallsBackOnWrite(t *testing.T) {
	path := writeInput(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, []string{path}, logging.Discard(), func() { calls <- struct{}{} })
	}()

	assert.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(sampleCSV), 0o644)
		select {
		case <-calls:
			return true
		default:
			return false
		}
	}, 5*time.Second, 250*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	err := watch(context.Background(), []string{filepath.Join(t.TempDir(), "gone", "plan.csv")}, logging.Discard(), func() {})
	assert.ErrorContains(t, err, "watch")
}
