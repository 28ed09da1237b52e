package main

import (
	"context"
	"fmt"
	"strings"

	"resume-turns-be/internal/config"
	"resume-turns-be/pkg/conversation"
	"resume-turns-be/pkg/versionclient"
	"resume-turns-be/pkg/versionsync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	apiBaseURL string
	natsURL    string
)

var rootCmd = &cobra.Command{
	Use:   "turns",
	Short: "Drive résumé conversations against a running version store",
	Long: `turns replays the demo bot flow through the sync controller and
inspects the stored versions. Every edit is autosaved to the server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cfg := config.Load()
	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api", cfg.App.BaseURL, "version store base URL")
	rootCmd.PersistentFlags().StringVar(&natsURL, "nats", cfg.App.NatsURL, "NATS URL used by watch")
}

func newController() *versionsync.Controller {
	return versionsync.NewController(versionclient.New(apiBaseURL))
}

func printConversation(conv conversation.Conversation) {
	color.Cyan("step %d · %d states · active %s · origin %s", conv.Step, len(conv.States), conv.ActiveStateId, conv.Origin)

	doc := conv.Document
	fmt.Printf("  %s %s <%s> %s\n", doc.Contact.FirstName, doc.Contact.LastName, doc.Contact.Email, doc.Contact.Phone)
	for _, l := range doc.Contact.Links {
		fmt.Printf("  link: %s %s\n", l.Label, l.Url)
	}
	if doc.Summary != "" {
		fmt.Printf("  summary: %s\n", doc.Summary)
	}
	if len(doc.Skills) > 0 {
		fmt.Printf("  skills: %s\n", strings.Join(doc.Skills, ", "))
	}
	for _, s := range doc.Sections {
		for _, it := range s.Items {
			fmt.Printf("  %s/%s: %v\n", s.Name, it.Id, it.Fields)
			for _, b := range it.Bullets {
				fmt.Printf("    • %s\n", b)
			}
		}
	}
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
