package main

import (
	"fmt"

	"resume-turns-be/internal/demo"
	"resume-turns-be/pkg/change"
	"resume-turns-be/pkg/conversation"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	playVersion string
	playName    string
	playUndo    int
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Replay the demo bot flow into a version",
	Long: `Creates a version (or selects --version) and submits the canned answer
for each bot step. Steps without an answer are skipped. --undo rewinds that
many turns at the end.`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&playVersion, "version", "", "existing version id to continue")
	playCmd.Flags().StringVar(&playName, "name", "", "name for the new version")
	playCmd.Flags().IntVar(&playUndo, "undo", 0, "turns to undo after the flow")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmdContext(cmd)
	ctrl := newController()
	ctrl.OnChange(func(conv conversation.Conversation) {
		if conv.Origin == conversation.OriginEdit {
			color.Green("  -> %s (step %d)", conv.ActiveStateId, conv.Step)
		}
	})

	if playVersion != "" {
		if err := ctrl.Select(ctx, playVersion); err != nil {
			return fmt.Errorf("select version: %w", err)
		}
	} else {
		v, err := ctrl.Create(ctx, playName)
		if err != nil {
			return fmt.Errorf("create version: %w", err)
		}
		color.Cyan("Created version %s (%s)", v.Name, v.Id)
	}

	for _, step := range demo.BotFlow {
		color.Yellow("\n[%s] %s", step.Id, step.Text)

		inputs := demo.InputsFor(step)
		if len(inputs) == 0 {
			fmt.Println("  (skipped)")
			if err := ctrl.Advance(ctx); err != nil {
				return err
			}
			continue
		}

		widgets := demo.WidgetsFor(step)
		for _, ch := range change.BuildFromInputs(inputs, widgets) {
			fmt.Printf("  %s %s%s = %v\n", ch.Action, ch.Target.Area, targetSuffix(ch.Target), ch.Value)
		}
		if err := ctrl.SubmitInputs(ctx, widgets, inputs); err != nil {
			return err
		}
	}

	for i := 0; i < playUndo; i++ {
		color.Magenta("\nUndo")
		if err := ctrl.Undo(ctx); err != nil {
			return err
		}
	}

	fmt.Println()
	printConversation(ctrl.Conversation())
	return nil
}

func targetSuffix(t change.Target) string {
	s := ""
	for _, part := range []string{t.SectionId, t.ItemId, t.Field, t.List} {
		if part != "" {
			s += "." + part
		}
	}
	return s
}
