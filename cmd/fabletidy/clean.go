package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"fabletidy/internal/corpus"
)

// defaultCorpusRelPath is where the corpus lives relative to the
// executable when neither an argument nor a manifest names it.
const defaultCorpusRelPath = "data/cleaned/aesop_fables_clean.txt"

const titleListWidth = 60

var summaryStyle = lipgloss.NewStyle().Faint(true)

var cleanCmd = &cobra.Command{
	Use:   "clean [path]",
	Short: "Normalize the fable corpus file in place",
	Long: `Clean rewrites the fable corpus so that every entry starts with a ###
delimiter line followed by its title, drops indented commentary, and
collapses redundant blank lines.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().Bool("check", false, "report whether the file would change without writing")
	cleanCmd.Flags().Bool("stdout", false, "print the cleaned corpus to stdout instead of rewriting the file")
	cleanCmd.Flags().String("format", "text", "output format (text|json)")
	cleanCmd.Flags().Bool("list", false, "list entry titles found during the pass")
}

func runClean(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}
	writeToStdout, err := cmd.Flags().GetBool("stdout")
	if err != nil {
		return err
	}
	outputFormat, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	listTitles, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}

	if writeToStdout && check {
		return fmt.Errorf("clean: --stdout cannot be used with --check")
	}
	if writeToStdout && outputFormat != "text" {
		return fmt.Errorf("clean: --stdout is only supported with text output")
	}
	switch outputFormat {
	case "text", "json":
		// supported
	default:
		return fmt.Errorf("clean: unsupported output format %q", outputFormat)
	}

	path, err := resolveCorpusPath(args)
	if err != nil {
		return err
	}

	res, err := corpus.CleanFile(path, corpus.Options{DryRun: check || writeToStdout})
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		if err := renderCleanJSON(res, check); err != nil {
			return err
		}
	} else if writeToStdout {
		_, _ = os.Stdout.Write(res.Cleaned)
	} else {
		renderCleanText(cmd, res, check, quiet, listTitles)
	}

	if check && res.Changed {
		return fmt.Errorf("clean: normalization required for %s", res.Path)
	}
	return nil
}

// resolveCorpusPath picks the corpus file: explicit argument, then the
// nearest fabletidy.toml walking up from the working directory, then the
// conventional location next to the executable.
func resolveCorpusPath(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}

	manifest, ok, err := loadCorpusManifest(".")
	if err != nil {
		return "", err
	}
	if ok {
		return manifest.corpusPath(), nil
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	return filepath.Join(filepath.Dir(exe), filepath.FromSlash(defaultCorpusRelPath)), nil
}

func renderCleanText(cmd *cobra.Command, res corpus.Result, check, quiet, listTitles bool) {
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))

	if check {
		if res.Changed && !quiet {
			_, _ = fmt.Fprintln(os.Stdout, res.Path)
		}
		return
	}

	notice := fmt.Sprintf("finished cleaning %s", res.Path)
	if !res.Changed {
		notice = fmt.Sprintf("already clean %s", res.Path)
	}
	if useColor {
		notice = color.GreenString("%s", notice)
	}
	_, _ = fmt.Fprintln(os.Stdout, notice)

	if quiet {
		return
	}
	if listTitles {
		for _, title := range res.Report.Titles {
			_, _ = fmt.Fprintf(os.Stdout, "  %s\n", truncateTitle(title, titleListWidth))
		}
	}
	if isTerminal(os.Stdout) {
		summary := fmt.Sprintf("%d entries, %d body lines, %d commentary lines dropped",
			res.Report.Entries, res.Report.BodyLines, res.Report.CommentaryDropped)
		_, _ = fmt.Fprintln(os.Stdout, summaryStyle.Render(summary))
	}
}

func renderCleanJSON(res corpus.Result, check bool) error {
	type cleanPayload struct {
		Path              string `json:"path"`
		Changed           bool   `json:"changed"`
		CheckRun          bool   `json:"check"`
		Entries           uint32 `json:"entries"`
		BodyLines         uint32 `json:"body_lines"`
		BlankKept         uint32 `json:"blank_kept"`
		CommentaryDropped uint32 `json:"commentary_dropped"`
	}

	payload := cleanPayload{
		Path:              res.Path,
		Changed:           res.Changed,
		CheckRun:          check,
		Entries:           countOrZero(res.Report.Entries),
		BodyLines:         countOrZero(res.Report.BodyLines),
		BlankKept:         countOrZero(res.Report.BlankKept),
		CommentaryDropped: countOrZero(res.Report.CommentaryDropped),
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

func countOrZero(n int) uint32 {
	v, convErr := safecast.Conv[uint32](n)
	if convErr != nil {
		return 0
	}
	return v
}

func truncateTitle(value string, width int) string {
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
