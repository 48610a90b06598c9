package outwriter

import (
	"os"

	"github.com/huangsam/analyzer/internal/contract"
	"golang.org/x/term"
)

// GetMaxTableNameWidth returns how many characters the specimen name column
// may use, based on the terminal width and the enabled columns.
func GetMaxTableNameWidth(cfg *contract.Config, detailColumns int) int {
	termWidth := cfg.Width
	if termWidth <= 0 {
		detected, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detected <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detected
		}
	}

	baseWidth := 30 // Rank + Score + Label + Delta with borders/padding
	if cfg.Detail {
		baseWidth += 10 * detailColumns
	}
	if cfg.Explain {
		baseWidth += 35
	}
	baseWidth += 10 // Separators

	available := termWidth - baseWidth
	if available < 12 {
		return 12
	}
	if available > 60 {
		return 60
	}
	return available
}
