package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"fabletidy/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "fabletidy",
	Short: "Fable corpus normalizer",
	Long:  `Fabletidy rewrites the cleaned fable corpus into its canonical entry layout`,
}

// main registers subcommands and persistent flags, then executes the root
// command. The process exits with status code 1 when execution fails.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
