package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/driftgrid/pkg/motion"
	"github.com/matzehuels/driftgrid/pkg/pipeline"
)

// =============================================================================
// Palette
// =============================================================================

// Accent colours share the saturation and lightness of the tiles so the CLI
// output looks like a strip of the grid.
var (
	colorAccent = hue(190)
	colorOK     = hue(140)
	colorWarn   = hue(40)
	colorFail   = hue(0)
	colorValue  = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("244")
	colorFaint  = lipgloss.Color("240")
)

func hue(h float64) lipgloss.Color {
	return lipgloss.Color(colorful.Hsl(h, 0.7, 0.5).Hex())
}

var (
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorFaint)
	// StyleValue renders data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorValue)
	// StyleWarning renders warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)

	styleAccent = lipgloss.NewStyle().Foreground(colorAccent)
	styleKey    = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
)

// =============================================================================
// Status Lines
// =============================================================================

// uiOut receives human-readable status output.
var uiOut io.Writer = os.Stdout

type mark struct {
	icon  string
	style lipgloss.Style
}

var (
	markOK   = mark{"✓", lipgloss.NewStyle().Foreground(colorOK)}
	markFail = mark{"✗", lipgloss.NewStyle().Foreground(colorFail)}
	markWarn = mark{"!", lipgloss.NewStyle().Foreground(colorWarn)}
	markInfo = mark{"›", lipgloss.NewStyle().Foreground(colorMuted)}
)

func say(m mark, body string) {
	fmt.Fprintln(uiOut, m.style.Render(m.icon)+" "+body)
}

func printSuccess(format string, args ...any) { say(markOK, fmt.Sprintf(format, args...)) }
func printError(format string, args ...any)   { say(markFail, fmt.Sprintf(format, args...)) }
func printInfo(format string, args ...any)    { say(markInfo, fmt.Sprintf(format, args...)) }

func printWarning(format string, args ...any) {
	say(markWarn, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile lists a written file.
func printFile(path string) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

// printKeyValue prints a labelled value in a fixed-width key column.
func printKeyValue(key, value string) {
	fmt.Fprintln(uiOut, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(uiOut, StyleDim.Render(description+":")+" "+styleAccent.Render(cmd))
}

// =============================================================================
// Replay Summary
// =============================================================================

// printReplayStats prints one dim line summarising a replay.
func printReplayStats(stats pipeline.Stats, offset motion.Offset, cached bool) {
	fmt.Fprintln(uiOut, "  "+replaySummary(stats, offset, cached))
}

func replaySummary(stats pipeline.Stats, offset motion.Offset, cached bool) string {
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d events", stats.Events)),
		StyleDim.Render(fmt.Sprintf("%d frames", stats.Frames)),
		StyleDim.Render(fmt.Sprintf("offset (%.1f, %.1f)", offset.X, offset.Y)),
	}
	if stats.Rejected > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d rejected", stats.Rejected)))
	}
	if cached {
		parts = append(parts, markOK.style.Render("cached"))
	} else {
		parts = append(parts, StyleDim.Render("fresh"))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}
