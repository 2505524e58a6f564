package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/palabra/internal/translate"
	"github.com/abhisek/palabra/internal/ui/review"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review due words interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return runReview(cmd, limit)
	},
}

func init() {
	reviewCmd.Flags().IntP("limit", "n", 20, "Maximum number of cards in the session (0 = all due)")
}

func runReview(cmd *cobra.Command, limit int) error {
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
	cards, err := a.Reviews.Due(ctx, a.User(), p.TargetLanguage, limit)
	if err != nil {
		return fmt.Errorf("load due cards: %w", err)
	}
	if len(cards) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing due. Save words with `palabra save <word>`.")
		return nil
	}
	stats, err := a.Store.Stats().Get(ctx, a.User())
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}

	lookup := func(ctx context.Context, word string) (string, error) {
		res, err := a.Translator.Translate(ctx, translate.Query{
			Word: word,
			From: p.TargetLanguage,
			To:   p.NativeLanguage,
		})
		if err != nil {
			return "", err
		}
		return res.Translation.Translation, nil
	}

	m := review.New(ctx, cards, a.Reviews, review.Options{
		UserID:   a.User(),
		Language: p.TargetLanguage,
		XP:       stats.XP,
		Streak:   stats.Streak,
		Lookup:   lookup,
	})
	sum, err := review.Run(ctx, m)
	if err != nil {
		return fmt.Errorf("review session: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Reviewed %d, correct %d, +%d XP, streak %d\n",
		sum.Reviewed, sum.Correct, sum.XPEarned, sum.Streak)
	return nil
}
