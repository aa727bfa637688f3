package main

import (
	"fmt"
	"os"

	club "temporal-club-tracker"
	"temporal-club-tracker/scoreboard"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	serverURL  string
	pickPolicy string
	altScreen  bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "scoreboard",
	Short: "Terminal scoreboard for the club's matches",
	Long: `scoreboard shows the club's featured match with a live countdown,
the league tables and the list of all matches.

It reads club.json from the web server (or any static host) and refreshes
every 2 minutes around kickoff, otherwise every 30 minutes.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		policy, err := club.ParsePickPolicy(pickPolicy)
		if err != nil {
			return err
		}

		model := scoreboard.NewModel(scoreboard.NewClient(serverURL), policy)
		var opts []tea.ProgramOption
		if altScreen {
			opts = append(opts, tea.WithAltScreen())
		}
		if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
			return fmt.Errorf("scoreboard: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVarP(&serverURL, "url", "u", envOr("SCOREBOARD_URL", "http://localhost:8080"), "Web server URL or a club.json URL")
	rootCmd.Flags().StringVar(&pickPolicy, "policy", envOr("PICK_POLICY", "recent"), "Match pick policy: recent or upcoming")
	rootCmd.Flags().BoolVar(&altScreen, "alt-screen", true, "Use the terminal's alternate screen")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
