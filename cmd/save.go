package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var saveCmd = &cobra.Command{
	Use:   "save <word>",
	Short: "Add a word to your review deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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
		card, created, err := a.Reviews.Save(ctx, a.User(), args[0], p.TargetLanguage)
		if err != nil {
			return err
		}
		if !created {
			fmt.Fprintf(cmd.OutOrStdout(), "%q is already in your deck (next review %s)\n",
				card.Word, card.NextReviewAt.Local().Format("2006-01-02"))
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %q, due for review now\n", card.Word)
		return nil
	},
}
