package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/charliek/logview/internal/domain"
)

// Colors
var (
	// Level colors
	verboseColor = lipgloss.Color("8")  // Gray
	debugColor   = lipgloss.Color("12") // Blue
	infoColor    = lipgloss.Color("10") // Green
	warningColor = lipgloss.Color("11") // Yellow
	errorColor   = lipgloss.Color("9")  // Red
	fatalColor   = lipgloss.Color("201")

	dimColor = lipgloss.Color("8")
)

// Styles
var (
	levelStyles = map[string]lipgloss.Style{
		strings.ToLower(domain.LevelVerbose):     lipgloss.NewStyle().Foreground(verboseColor),
		strings.ToLower(domain.LevelDebug):       lipgloss.NewStyle().Foreground(debugColor),
		strings.ToLower(domain.LevelInformation): lipgloss.NewStyle().Foreground(infoColor),
		strings.ToLower(domain.LevelWarning):     lipgloss.NewStyle().Foreground(warningColor).Bold(true),
		strings.ToLower(domain.LevelError):       lipgloss.NewStyle().Foreground(errorColor).Bold(true),
		strings.ToLower(domain.LevelFatal):       lipgloss.NewStyle().Foreground(fatalColor).Bold(true),
	}

	defaultLevelStyle = lipgloss.NewStyle()

	timestampStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	exceptionStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			PaddingLeft(4)

	footerStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			Italic(true)
)

// levelStyle returns the style for a level name, matched case-insensitively.
func levelStyle(level string) lipgloss.Style {
	if style, ok := levelStyles[strings.ToLower(level)]; ok {
		return style
	}
	return defaultLevelStyle
}

// levelAbbrev shortens well-known level names to three letters.
func levelAbbrev(level string) string {
	switch strings.ToLower(level) {
	case "verbose", "trace":
		return "VRB"
	case "debug":
		return "DBG"
	case "information", "info":
		return "INF"
	case "warning", "warn":
		return "WRN"
	case "error":
		return "ERR"
	case "fatal", "panic":
		return "FTL"
	case "":
		return "???"
	default:
		return strings.ToUpper(level)
	}
}
