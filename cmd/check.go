package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"pixflow/internal/batch"
	"pixflow/internal/tui"
)

var checkCmd = &cobra.Command{
	Use:   "check <source>...",
	Short: "Classify sources without loading them",
	Long:  "Classify each source as a plausible image identifier or not, with no network or filesystem access.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		valid, invalid := batch.Classify(args)

		for _, source := range valid {
			fmt.Fprintf(os.Stdout, "%s %s\n", okStyle.Render("✓"), source)
		}
		for _, source := range invalid {
			fmt.Fprintf(os.Stdout, "%s %s\n", badStyle.Render("✗"), source)
		}

		fmt.Fprintf(os.Stdout, "%s\n", countStyle.Render(
			fmt.Sprintf("%d valid, %d invalid", len(valid), len(invalid))))

		if len(invalid) > 0 {
			os.Exit(1)
		}
		return nil
	},
}

var (
	okStyle    = lipgloss.NewStyle().Foreground(tui.ColorSuccess)
	badStyle   = lipgloss.NewStyle().Foreground(tui.ColorFail)
	countStyle = lipgloss.NewStyle().Foreground(tui.ColorDim)
)

func init() {
	rootCmd.AddCommand(checkCmd)
}
