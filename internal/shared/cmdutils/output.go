package cmdutils

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/text"
)

const logo = "🎓"

// PrintResult prints a tool result under a header naming the tool.
// Failure payloads are highlighted in red.
func PrintResult(tool, result string, failed bool) {
	header := fmt.Sprintf("%s %s", logo, tool)
	if failed {
		header = text.FgRed.Sprint(header + " (failed)")
	}
	if result == "" {
		result = text.Faint.Sprint("(empty result)")
	}
	fmt.Printf("\n%s\n%s\n\n", header, result)
}
