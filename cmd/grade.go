package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/palabra/internal/learner"
)

var gradeCmd = &cobra.Command{
	Use:   "grade <word>",
	Short: "Record one review of a word",
	Long: "Record one review. Quality is inferred from correctness and the response " +
		"time: under the fast threshold is perfect, over the slow threshold is difficult.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		correct, _ := cmd.Flags().GetBool("correct")
		ms, _ := cmd.Flags().GetInt("ms")

		ctx := cmd.Context()
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.Profile(ctx)
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		out, err := a.Reviews.Submit(ctx, learner.ReviewInput{
			UserID:         a.User(),
			Word:           args[0],
			Language:       p.TargetLanguage,
			Correct:        correct,
			ResponseTimeMs: ms,
		})
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s: quality %d, next review in %d day(s) on %s\n",
			out.Card.Word, out.Quality, out.Result.Interval, out.Result.NextReviewAt.Local().Format("2006-01-02"))
		fmt.Fprintf(w, "ease %.2f, repetitions %d, +%d XP, streak %d\n",
			out.Result.EaseFactor, out.Result.Repetitions, out.Award.XP, out.Award.Streak)
		if out.Award.Milestone {
			fmt.Fprintln(w, out.Award.Reason)
		}
		return nil
	},
}

func init() {
	gradeCmd.Flags().Bool("correct", false, "The word was recalled")
	gradeCmd.Flags().Bool("wrong", false, "The word was not recalled")
	gradeCmd.Flags().Int("ms", 0, "Response time in milliseconds")
	gradeCmd.MarkFlagsMutuallyExclusive("correct", "wrong")
	gradeCmd.MarkFlagsOneRequired("correct", "wrong")
	_ = gradeCmd.MarkFlagRequired("ms")
}
