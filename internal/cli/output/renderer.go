// Package output renders command results as styled text, plain
// markdown, or JSON depending on the destination.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Mode selects how command output is rendered.
type Mode string

const (
	// ModeAuto picks text on a TTY and markdown otherwise.
	ModeAuto Mode = "auto"
	// ModeText renders styled terminal output.
	ModeText Mode = "text"
	// ModeMarkdown renders plain markdown, suitable for piping.
	ModeMarkdown Mode = "markdown"
	// ModeJSON renders machine readable JSON.
	ModeJSON Mode = "json"
)

// Styles holds the lipgloss styles used for text output.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Success lipgloss.Style

	DocPath       lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
}

func defaultStyles() Styles {
	return Styles{
		Header1: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Bold:    lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),

		DocPath:       lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		StatusFailed:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
}

// Renderer writes command output in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	isTTY  bool
	styles Styles
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	isTTY := false
	if f, ok := out.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}
	return NewRendererWithTTY(out, errOut, mode, isTTY)
}

// NewRendererWithTTY creates a renderer with an explicit TTY flag.
// Used by tests to force a rendering mode.
func NewRendererWithTTY(out, errOut io.Writer, mode Mode, isTTY bool) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	r := &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTTY,
		styles: defaultStyles(),
	}
	if !isTTY || termenv.EnvNoColor() {
		// Strip colors when not writing to an interactive terminal.
		r.styles = plainStyles()
	}
	return r
}

func plainStyles() Styles {
	return Styles{
		Header1: lipgloss.NewStyle(), Header2: lipgloss.NewStyle(),
		Bold: lipgloss.NewStyle(), Muted: lipgloss.NewStyle(),
		Error: lipgloss.NewStyle(), Warning: lipgloss.NewStyle(),
		Info: lipgloss.NewStyle(), Success: lipgloss.NewStyle(),
		DocPath:       lipgloss.NewStyle(),
		StatusSuccess: lipgloss.NewStyle(),
		StatusFailed:  lipgloss.NewStyle(),
	}
}

// EffectiveMode resolves ModeAuto against the TTY state.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// Styles returns the renderer's styles.
func (r *Renderer) Styles() Styles {
	return r.styles
}

// Writer returns the underlying output writer.
func (r *Renderer) Writer() io.Writer {
	return r.out
}

// Printf writes formatted output.
func (r *Renderer) Printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// Println writes a line of output.
func (r *Renderer) Println(args ...any) {
	fmt.Fprintln(r.out, args...)
}

// Success writes a success message.
func (r *Renderer) Success(msg string) {
	fmt.Fprintln(r.out, r.styles.Success.Render("✓ "+msg))
}

// Warning writes a warning message to the error stream.
func (r *Renderer) Warning(msg string) {
	fmt.Fprintln(r.errOut, r.styles.Warning.Render("! "+msg))
}

// Error writes an error message to the error stream.
func (r *Renderer) Error(msg string) {
	fmt.Fprintln(r.errOut, r.styles.Error.Render("✗ "+msg))
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Header writes a section header at the given level.
func (r *Renderer) Header(level int, text string) {
	fmt.Fprintln(r.out, r.FormatHeader(level, text))
}

// FormatHeader formats a section header without writing it.
func (r *Renderer) FormatHeader(level int, text string) string {
	switch r.EffectiveMode() {
	case ModeText:
		style := r.styles.Header1
		if level > 1 {
			style = r.styles.Header2
		}
		return style.Render(text)
	default:
		return strings.Repeat("#", level) + " " + text
	}
}

// FormatKeyValue formats a "key: value" line.
func (r *Renderer) FormatKeyValue(key, value string) string {
	if r.EffectiveMode() == ModeText {
		return r.styles.Bold.Render(key+":") + " " + value
	}
	return "**" + key + ":** " + value
}

// StatusLine writes a name with a pass/fail status and optional detail.
func (r *Renderer) StatusLine(name, status, msg string) {
	rendered := status
	switch strings.ToLower(status) {
	case "ok", "pass", "success":
		rendered = r.styles.StatusSuccess.Render(status)
	case "fail", "failed", "error":
		rendered = r.styles.StatusFailed.Render(status)
	}

	if msg != "" {
		fmt.Fprintf(r.out, "%s  %s  %s\n", rendered, r.styles.DocPath.Render(name), msg)
	} else {
		fmt.Fprintf(r.out, "%s  %s\n", rendered, r.styles.DocPath.Render(name))
	}
}
