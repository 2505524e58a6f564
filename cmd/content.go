package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/palabra/internal/learner"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Manage the content catalog",
}

var contentImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import content items from a JSON array",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		recs, err := learner.DecodeImport(f)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := learner.Import(ctx, a.Store.Content(), recs, time.Now().UTC())
		if err != nil {
			return err
		}
		if len(report.Added) > 0 {
			a.Feed.Invalidate(ctx, a.User())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d item(s), skipped %d existing\n",
			len(report.Added), len(report.Skipped))
		return nil
	},
}

var contentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog items, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		lang, _ := cmd.Flags().GetString("lang")

		ctx := cmd.Context()
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		items, err := a.Store.Content().List(ctx, lang, limit)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if len(items) == 0 {
			fmt.Fprintln(w, "No content found.")
			return nil
		}

		fmt.Fprintf(w, "%-12s  %-4s  %-4s  %-12s  %5s  %5s  %s\n",
			"ID", "Lang", "CEFR", "Topic", "Words", "Dopa", "Title")
		fmt.Fprintln(w, rule)
		for _, it := range items {
			fmt.Fprintf(w, "%-12s  %-4s  %-4s  %-12s  %5d  %5.2f  %s\n",
				truncate(it.ID, 12), it.Language, it.Level, truncate(it.Topic, 12),
				len(it.Words), it.DopamineScore, truncate(it.Title, 30))
		}
		return nil
	},
}

func init() {
	contentListCmd.Flags().IntP("limit", "n", 50, "Number of items to show")
	contentListCmd.Flags().String("lang", "", "Only show items in this language")

	contentCmd.AddCommand(contentImportCmd)
	contentCmd.AddCommand(contentListCmd)
}
