package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored versions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		versions, err := newController().List(cmdContext(cmd))
		if err != nil {
			return err
		}
		if len(versions) == 0 {
			fmt.Println("No versions yet.")
			return nil
		}
		for _, v := range versions {
			fmt.Printf("%s  %-24s %s\n", v.Id, v.Name, v.UpdatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <version-id>",
	Short: "Load a version and print its current document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl := newController()
		if err := ctrl.Select(cmdContext(cmd), args[0]); err != nil {
			return err
		}
		printConversation(ctrl.Conversation())
		return nil
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <version-id> <name>",
	Short: "Rename a version",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := newController().Rename(cmdContext(cmd), args[0], args[1])
		if err != nil {
			return err
		}
		color.Green("Renamed %s to %q", v.Id, v.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd, showCmd, renameCmd)
}
