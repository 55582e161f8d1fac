package ui

import (
	"os"
	"strconv"
	"strings"
)

// Theme bundles palette + symbols + box borders for static output.
// All UI helpers pull from `current`.
type Theme struct {
	Title, Muted, Accent, Success, Error, Pending string
	BoxUnchecked, BoxChecked                      string
	CornerTL, CornerTR, CornerBL, CornerBR        string
	H, V                                          string
	SymDone, SymUnchecked                         string
}

var current Theme

func init() { SetTheme("dark") }

func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "light":
		disableColor = false
		current = Theme{
			Title: bold, Muted: dim, Accent: fgBlue,
			Success: fgGreen, Error: fgRed, Pending: fgMagenta,
			BoxUnchecked: "☐", BoxChecked: "☑",
			CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
			H: "─", V: "│",
			SymDone: "✔", SymUnchecked: "•",
		}
	case "mono":
		disableColor = true
		current = Theme{
			Title: "", Muted: "", Accent: "", Success: "", Error: "", Pending: "",
			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
			SymDone: "x", SymUnchecked: "-",
		}
	default: // dark
		disableColor = false
		current = Theme{
			Title: bold, Muted: fgGray, Accent: fgBlue,
			Success: fgGreen, Error: fgRed, Pending: fgYellow,
			BoxUnchecked: "☐", BoxChecked: "☑",
			CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
			H: "─", V: "│",
			SymDone: "✔", SymUnchecked: "•",
		}
	}
}

// Apply switches the palette by config name: dark, light, auto or
// mono. NO_COLOR always forces mono.
func Apply(name string) {
	if os.Getenv("NO_COLOR") != "" {
		SetTheme("mono")
		return
	}
	if strings.EqualFold(name, "auto") {
		if DetectDark() {
			SetTheme("dark")
		} else {
			SetTheme("light")
		}
		return
	}
	SetTheme(name)
}

// DetectDark sniffs whether the terminal background is dark. COLORFGBG
// is the only broadly available hint; when it is absent, dark wins.
func DetectDark() bool {
	v := os.Getenv("COLORFGBG") // "fg;bg", sometimes "fg;default;bg"
	parts := strings.Split(v, ";")
	if len(parts) >= 2 {
		if n, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			return n <= 6 || n == 8
		}
	}
	return true
}

// Expose what renderers need
func Current() Theme { return current }
