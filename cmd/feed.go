package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/palabra/internal/feed"
	"github.com/abhisek/palabra/internal/ui/theme"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Show your ranked content feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		offset, _ := cmd.Flags().GetInt("offset")
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		ctx := cmd.Context()
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		page, err := a.Feed.Page(ctx, a.User(), feed.Page{Offset: offset, Limit: limit})
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if asJSON {
			return writeJSON(w, page)
		}
		if page.Total == 0 {
			fmt.Fprintln(w, "No content yet. Add some with `palabra content import <file>`.")
			return nil
		}
		if page.Fallback {
			fmt.Fprintln(w, theme.Hint.Render("Nothing matched your level yet, showing beginner picks."))
		}
		for i, it := range page.Items {
			fmt.Fprintln(w, renderFeedItem(offset+i+1, it))
		}
		fmt.Fprintln(w, theme.Subtitle.Render(fmt.Sprintf("showing %d-%d of %d", offset+1, offset+len(page.Items), page.Total)))
		return nil
	},
}

var seenCmd = &cobra.Command{
	Use:   "seen <content-id>",
	Short: "Mark a feed item as watched",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		it, err := a.Feed.RecordSeen(ctx, a.User(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Marked %q (%s) as seen\n", it.Title, it.Topic)
		return nil
	},
}

func init() {
	feedCmd.Flags().Int("offset", 0, "Number of items to skip")
	feedCmd.Flags().IntP("limit", "n", 10, "Number of items to show")
	feedCmd.Flags().Bool("json", false, "Print the page as JSON")
}
