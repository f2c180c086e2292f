package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chatty-orange/server/internal/assistant/model"
	"github.com/chatty-orange/server/internal/assistant/repo"
)

// --- ask ---

var askCmd = &cobra.Command{
	Use:   "ask <text>",
	Short: "Send one request to the assistant and print the answer",
	Long: `Send one request to the assistant and print the answer.

Examples:
  orange-assistant ask "Найди пользователя Orange"
  orange-assistant ask --action interactive_tour_step --step 2
  orange-assistant ask --user-id 1 --username Orange "кого почитать?"`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		action, _ := cmd.Flags().GetString("action")
		userID, _ := cmd.Flags().GetInt64("user-id")
		username, _ := cmd.Flags().GetString("username")
		tagsStr, _ := cmd.Flags().GetString("tags")

		cfg, err := loadConfig(envFile)
		if err != nil {
			return err
		}
		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		req := model.AssistantRequest{
			RawText:        strings.Join(args, " "),
			ExplicitIntent: action,
			Caller:         model.CallerInfo{IP: "127.0.0.1"},
		}
		if cmd.Flags().Changed("step") {
			step, _ := cmd.Flags().GetInt("step")
			req.StepNumber = &step
		}
		if cmd.Flags().Changed("post-id") {
			id, _ := cmd.Flags().GetInt64("post-id")
			req.PostID = &id
		}
		if tagsStr != "" {
			for _, t := range strings.Split(tagsStr, ",") {
				req.Tags = append(req.Tags, strings.TrimSpace(t))
			}
		}
		if userID > 0 {
			req.Caller.UserID = &userID
			req.Caller.Username = username
			req.Caller.IsAuthenticated = true
		}

		resp, err := a.service.Handle(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), resp.Text)
		return nil
	},
}

// --- seed ---

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo users and posts into the content store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(envFile)
		if err != nil {
			return err
		}
		store, err := repo.OpenContentStore(cfg.SQLite.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := repo.Seed(cmd.Context(), store, time.Now()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %s\n", cfg.SQLite.Path)
		return nil
	},
}

func init() {
	askCmd.Flags().String("action", "", "explicit action type, e.g. faq or get_post_details")
	askCmd.Flags().Int("step", 1, "tour step for interactive_tour_step")
	askCmd.Flags().Int64("post-id", 0, "post id for get_post_details")
	askCmd.Flags().Int64("user-id", 0, "act as this authenticated user")
	askCmd.Flags().String("username", "", "username of the authenticated user")
	askCmd.Flags().String("tags", "", "comma-separated tags for generate_post_ideas")
}
