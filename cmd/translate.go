package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/palabra/internal/translate"
	"github.com/abhisek/palabra/internal/ui/theme"
)

var translateCmd = &cobra.Command{
	Use:   "translate <word>",
	Short: "Translate a word from your feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		sentence, _ := cmd.Flags().GetString("context")

		ctx := cmd.Context()
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if from == "" || to == "" {
			p, err := a.Profile(ctx)
			if err != nil {
				return fmt.Errorf("load profile: %w", err)
			}
			if from == "" {
				from = p.TargetLanguage
			}
			if to == "" {
				to = p.NativeLanguage
			}
		}

		res, err := a.Translator.Translate(ctx, translate.Query{
			Word:    args[0],
			From:    from,
			To:      to,
			Context: sentence,
		})
		if errors.Is(err, translate.ErrUnavailable) {
			return fmt.Errorf("%q has no stored translation and no LLM provider is configured (set llm.provider or an API key)", args[0])
		}
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		line := theme.Word.Render(res.Word) + " → " + theme.Body.Render(res.Translation.Translation)
		if res.PartOfSpeech != "" {
			line += theme.Subtitle.Render(" (" + res.PartOfSpeech + ")")
		}
		fmt.Fprintln(w, line)
		if res.Example != "" {
			fmt.Fprintln(w, theme.Hint.Render(res.Example))
		}
		fmt.Fprintln(w, theme.Subtitle.Render("source: "+string(res.Source)))
		return nil
	},
}

func init() {
	translateCmd.Flags().String("from", "", "Source language (default: profile target language)")
	translateCmd.Flags().String("to", "", "Target language (default: profile native language)")
	translateCmd.Flags().String("context", "", "Sentence the word appeared in")
}
