package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	ldErrors "github.com/livedom-dev/livedom/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦  ╦┬  ┬┌─┐╔╦╗┌─┐┌┬┐
  ║  ║└┐┌┘├┤  ║║│ ││││
  ╩═╝╩ └┘ └─┘═╩╝└─┘┴ ┴
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "livedom",
		Short: "Live element trees over the wire",
		Long: `Livedom pushes element trees from Go programs to live displays.

Programs build trees with the vdom package and stream them through a
display channel; only the differences travel after the first frame.
The sink server receives frames over WebSocket, keeps the current
document per display, and serves it back over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		demoCmd(),
		initCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		var ldErr *ldErrors.Error
		if errors.As(err, &ldErr) {
			fmt.Fprintln(os.Stderr, ldErr.Format())
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

// printBanner prints the livedom ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
