package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/palabra/internal/learner"
	"github.com/abhisek/palabra/internal/store"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or change your learner profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the learner profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.Profile(ctx)
		if err != nil {
			return err
		}
		printProfile(cmd, p)
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update the learner profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		var u learner.ProfileUpdate
		flags := cmd.Flags()
		if flags.Changed("lang") {
			v, _ := flags.GetString("lang")
			u.TargetLanguage = &v
		}
		if flags.Changed("native") {
			v, _ := flags.GetString("native")
			u.NativeLanguage = &v
		}
		if flags.Changed("level") {
			v, _ := flags.GetString("level")
			u.Level = &v
		}
		if flags.Changed("difficulty") {
			v, _ := flags.GetFloat64("difficulty")
			u.PreferredDifficulty = &v
		}
		if flags.Changed("engagement") {
			v, _ := flags.GetFloat64("engagement")
			u.EngagementScore = &v
		}

		ctx := cmd.Context()
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := learner.UpdateProfile(ctx, a.Store, a.User(), u, time.Now().UTC())
		if err != nil {
			return err
		}
		a.Feed.Invalidate(ctx, a.User())
		printProfile(cmd, p)
		return nil
	},
}

func printProfile(cmd *cobra.Command, p *store.Profile) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "User:        %s\n", p.UserID)
	fmt.Fprintf(w, "Learning:    %s (from %s)\n", p.TargetLanguage, p.NativeLanguage)
	fmt.Fprintf(w, "Level:       %s\n", p.CurrentLevel)
	fmt.Fprintf(w, "Difficulty:  %.0f%% known words preferred\n", p.PreferredDifficulty*100)
	fmt.Fprintf(w, "Engagement:  %.2f\n", p.EngagementScore)
}

func init() {
	profileSetCmd.Flags().String("lang", "", "Language being learned")
	profileSetCmd.Flags().String("native", "", "Native language")
	profileSetCmd.Flags().String("level", "", "CEFR level (A0-C2)")
	profileSetCmd.Flags().Float64("difficulty", 0, "Preferred share of known words, in (0, 1]")
	profileSetCmd.Flags().Float64("engagement", 0, "Engagement score, in [0, 1]")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
}
