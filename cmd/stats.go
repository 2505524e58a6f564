package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/palabra/internal/learner"
	"github.com/abhisek/palabra/internal/srs"
	"github.com/abhisek/palabra/internal/ui/components"
	"github.com/abhisek/palabra/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		ctx := cmd.Context()
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ov, err := learner.LoadOverview(ctx, a.Store, a.User(), time.Now().UTC())
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if asJSON {
			return writeJSON(w, ov)
		}

		fmt.Fprintln(w, theme.Title.Render(fmt.Sprintf("%s · %s %s", ov.Profile.UserID, ov.Profile.TargetLanguage, ov.Profile.CurrentLevel)))
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "XP          %d\n", ov.Stats.XP)
		fmt.Fprintf(w, "Streak      %d days (longest %d, next milestone %d)\n",
			ov.Stats.Streak, ov.Stats.LongestStreak, ov.NextMilestone)
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Words       %d seen, %d known, %d mastered, %d due\n",
			ov.Knowledge.Total, ov.Knowledge.Known, ov.Knowledge.Mastered, ov.Knowledge.Due)
		bar := components.ProgressBar{Label: "Known", Done: ov.Knowledge.Known, Total: ov.Knowledge.Total, Width: 60}
		fmt.Fprintln(w, bar.View())
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Cards       %d new, %d learning, %d reviewing, %d due now\n",
			ov.Cards[srs.StatusNew], ov.Cards[srs.StatusLearning], ov.Cards[srs.StatusReviewing], ov.DueCards)
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("json", false, "Print the overview as JSON")
}
