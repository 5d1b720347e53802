package theme

import (
	"fmt"
)

// Banner returns the wicketwire startup banner.
func Banner() string {
	const green = "\033[32m"
	const yellow = "\033[33m"
	const red = "\033[31m"
	const reset = "\033[0m"

	art := "" +
		"   ● ● ●   " + red + "WICKETWIRE" + reset + "   ● ● ●\n" +
		green + "    ┃┃┃        ┃┃┃        ┃┃┃\n" + reset +
		green + "    ┻┻┻ ━━━━━━ ┻┻┻ ━━━━━━ ┻┻┻\n" + reset +
		yellow + "   ─────────────────────────────\n" + reset +
		"   live cricket moments, posted before the crowd ●\n"
	return art
}

// PrintBanner prints the banner to stdout.
func PrintBanner() {
	fmt.Print(Banner())
}
