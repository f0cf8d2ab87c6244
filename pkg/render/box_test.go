package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/gtasksprint/pkg/model"
	"github.com/harrisonrobin/gtasksprint/pkg/urgency"
	"github.com/harrisonrobin/gtasksprint/pkg/wrap"
)

var now = time.Date(2024, time.June, 1, 18, 0, 0, 0, time.UTC)

func plain(width int) Config {
	return Config{Width: width, Now: now, Profile: termenv.Ascii}
}

func colored(width int) Config {
	return Config{Width: width, Now: now, Profile: termenv.ANSI256}
}

func render(t *testing.T, tasks []model.Task, cfg Config) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, tasks, cfg))
	return buf.String()
}

func row(line string, inner int) string {
	return "│" + line + strings.Repeat(" ", inner-wrap.Width(line)) + "│\n"
}

func TestRenderSingleTask(t *testing.T) {
	got := render(t, []model.Task{{Title: "Buy milk"}}, plain(40))

	want := "┌" + strings.Repeat("─", 37) + "┐\n" +
		"│• Buy milk" + strings.Repeat(" ", 27) + "│\n" +
		"└" + strings.Repeat("─", 37) + "┘"
	assert.Equal(t, want, got)
}

func TestRenderEmptyList(t *testing.T) {
	got := render(t, nil, plain(20))
	assert.Equal(t, "┌"+strings.Repeat("─", 17)+"┐\n└"+strings.Repeat("─", 17)+"┘", got)
}

func TestRenderNoTrailingNewline(t *testing.T) {
	got := render(t, []model.Task{{Title: "Buy milk", Notes: "2%"}}, plain(30))
	assert.False(t, strings.HasSuffix(got, "\n"))
	assert.True(t, strings.HasSuffix(got, "┘"))
}

func TestRenderWrapsLongTitle(t *testing.T) {
	tasks := []model.Task{{Title: "Remember to call the dentist about rescheduling the appointment"}}
	got := render(t, tasks, plain(40))

	want := "┌" + strings.Repeat("─", 37) + "┐\n" +
		row("• Remember to call the dentist", 37) +
		row("   about rescheduling the appoint-", 37) +
		row("   ment", 37) +
		"└" + strings.Repeat("─", 37) + "┘"
	assert.Equal(t, want, got)
}

func TestRenderNotes(t *testing.T) {
	tasks := []model.Task{{Title: "Pay rent", Notes: "Transfer before noon\nReference: flat 3"}}
	got := render(t, tasks, plain(40))

	lines := strings.Split(got, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, row("• Pay rent", 37), lines[1]+"\n")
	assert.Equal(t, row("  • Transfer before noon", 37), lines[2]+"\n")
	assert.Equal(t, row("     Reference: flat 3", 37), lines[3]+"\n")
}

func TestRenderBordersAlign(t *testing.T) {
	short := []model.Task{
		{Title: "a b c", Notes: "d e f"},
		{Title: "é ü", Due: "2024-06-01T00:00:00.000Z"},
		{Title: "x", Notes: "y\n\nz", Due: "2024-05-01T00:00:00Z"},
	}
	for width := MinWidth; width <= 120; width++ {
		assertAligned(t, render(t, short, plain(width)), width)
	}

	long := []model.Task{
		{Title: "Renew passport and book flights for the summer holiday", Due: "2024-06-20T00:00:00Z"},
		{Title: "日本語のメモ 確認", Notes: "naïve café résumé déjà vu"},
		{Title: "Submit the reimbursement form", Notes: "Attach receipts\nAsk about the well-known exception"},
	}
	for width := 30; width <= 120; width++ {
		assertAligned(t, render(t, long, plain(width)), width)
	}
}

func assertAligned(t *testing.T, out string, width int) {
	t.Helper()
	for i, line := range strings.Split(out, "\n") {
		if !assert.Equal(t, width-1, wrap.Width(line), "width %d line %d %q", width, i, line) {
			return
		}
	}
}

func TestRenderColors(t *testing.T) {
	tasks := []model.Task{
		{Title: "Pay rent", Due: "2024-05-31T00:00:00.000Z", Notes: "landlord"},
		{Title: "Call mom", Due: "2024-06-01T00:00:00.000Z"},
		{Title: "Dentist", Due: "2024-06-05T00:00:00.000Z"},
		{Title: "Someday"},
	}
	got := render(t, tasks, colored(40))
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 7)

	pad := func(s string) string { return s + strings.Repeat(" ", 37-wrap.Width(s)) }
	assert.Equal(t, "│\x1b[91m"+pad("• Pay rent")+"\x1b[0m│", lines[1])
	assert.Equal(t, "│\x1b[37m"+pad("  • landlord")+"\x1b[0m│", lines[2])
	assert.Equal(t, "│\x1b[38;5;208m"+pad("• Call mom")+"\x1b[0m│", lines[3])
	assert.Equal(t, "│\x1b[97m"+pad("• Dentist")+"\x1b[0m│", lines[4])
	assert.Equal(t, "│\x1b[97m"+pad("• Someday")+"\x1b[0m│", lines[5])

	// Borders are never colored.
	assert.NotContains(t, lines[0], "\x1b")
	assert.NotContains(t, lines[6], "\x1b")
}

func TestRenderUntitledOverdueTask(t *testing.T) {
	got := render(t, []model.Task{{Due: "2024-05-20T00:00:00Z"}}, colored(20))
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "│\x1b[91m• "+strings.Repeat(" ", 15)+"\x1b[0m│", lines[1])
}

func TestRenderDayGranularity(t *testing.T) {
	tasks := []model.Task{{Title: "Call mom", Due: "2024-06-01T00:00:00Z"}}
	cfg := colored(30)
	cfg.Now = time.Date(2024, time.June, 1, 23, 59, 59, 0, time.UTC)
	assert.Contains(t, render(t, tasks, cfg), "\x1b[38;5;208m• Call mom")
}

func TestRenderPaletteOverride(t *testing.T) {
	cfg := colored(30)
	cfg.Palette.Classes[urgency.Overdue] = "1"
	got := render(t, []model.Task{{Title: "Pay rent", Due: "2024-05-01T00:00:00Z"}}, cfg)
	assert.Contains(t, got, "\x1b[31m• Pay rent")
}

func TestRenderMalformedDueDate(t *testing.T) {
	tasks := []model.Task{
		{Title: "Buy milk"},
		{Title: "Broken", Due: "tomorrow"},
		{Title: "Never printed"},
	}
	var buf bytes.Buffer
	err := Render(&buf, tasks, plain(40))

	require.Error(t, err)
	assert.True(t, errors.Is(err, urgency.ErrMalformedDueDate))
	assert.Contains(t, err.Error(), "Broken")
	assert.Contains(t, buf.String(), "• Buy milk")
	assert.NotContains(t, buf.String(), "Broken")
	assert.NotContains(t, buf.String(), "Never printed")
	assert.NotContains(t, buf.String(), "└")
}

func TestRenderInvalidWidth(t *testing.T) {
	for _, width := range []int{-5, 0, 3, MinWidth - 1} {
		var buf bytes.Buffer
		err := Render(&buf, []model.Task{{Title: "Buy milk"}}, plain(width))
		assert.True(t, errors.Is(err, ErrInvalidWidth), "width %d: %v", width, err)
		assert.Zero(t, buf.Len(), "width %d", width)
	}

	_, err := New(plain(MinWidth))
	assert.NoError(t, err)
}

type failingWriter struct {
	writes int
	after  int
}

func (f *failingWriter) Write(p []byte) (int, error) {
	if f.writes >= f.after {
		return 0, errors.New("broken pipe")
	}
	f.writes++
	return len(p), nil
}

func TestRenderOutputError(t *testing.T) {
	tasks := []model.Task{{Title: "Buy milk", Notes: "2%"}}
	for after := 0; after < 4; after++ {
		err := Render(&failingWriter{after: after}, tasks, plain(30))
		assert.True(t, errors.Is(err, ErrOutput), "after %d writes: %v", after, err)
		assert.Contains(t, err.Error(), "broken pipe")
	}
	assert.NoError(t, Render(&failingWriter{after: 4}, tasks, plain(30)))
}

func TestRenderEmptyTitle(t *testing.T) {
	tasks := []model.Task{
		{Title: "", Notes: "call back"},
		{Title: "   "},
	}

	got := render(t, tasks, plain(30))
	assert.Equal(t, "┌"+strings.Repeat("─", 27)+"┐\n"+
		row("• ", 27)+
		row("  • call back", 27)+
		row("• ", 27)+
		"└"+strings.Repeat("─", 27)+"┘", got)

	cfg := plain(30)
	cfg.EmptyTitle = SkipEmptyTitle
	got = render(t, tasks, cfg)
	assert.Equal(t, "┌"+strings.Repeat("─", 27)+"┐\n"+
		row("  • call back", 27)+
		"└"+strings.Repeat("─", 27)+"┘", got)
}

func TestRendererReuse(t *testing.T) {
	r, err := New(plain(40))
	require.NoError(t, err)

	tasks := []model.Task{{Title: "Buy milk", Notes: "and bread"}}
	var a, b bytes.Buffer
	require.NoError(t, r.Render(&a, tasks))
	require.NoError(t, r.Render(&b, tasks))
	assert.Equal(t, a.String(), b.String())
}

func TestRow(t *testing.T) {
	assert.Equal(t, "│ab  │\n", Row("ab", 4, termenv.Ascii.String()))
	assert.Equal(t, "│日本│\n", Row("日本", 4, termenv.Ascii.String()))
	assert.Equal(t, "│toolong│\n", Row("toolong", 4, termenv.Ascii.String()))
	assert.Equal(t, "│\x1b[91mab  \x1b[0m│\n", Row("ab", 4, termenv.ANSI.String().Foreground(termenv.ANSIColor(9))))
}
