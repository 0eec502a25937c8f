package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/steveyegge/mdboard/internal/scaffold"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold a .mdboard/ directory in the current project",
	Long: `Create the .mdboard/ data directory: column directories for the task
board, prompts/ and documents/ resource directories, a default
tasks/config.yaml, and the agent skill file under .claude/skills/.

An existing top-level tasks/, prompts/, or documents/ directory from the old
layout is moved into .mdboard/ first. Init never overwrites existing board
data and can be re-run safely.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := os.Getwd()
		if err != nil {
			return err
		}
		res, err := scaffold.Run(root)
		if err != nil {
			return err
		}
		printInitSummary(res)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func printInitSummary(res *scaffold.Result) {
	if len(res.Migrated) > 0 {
		fmt.Println("Migrated to .mdboard/:")
		for _, item := range res.Migrated {
			fmt.Printf("  > %s/\n", item)
		}
	}
	if len(res.Created) > 0 {
		fmt.Println("Created:")
		for _, item := range res.Created {
			fmt.Printf("  + %s\n", item)
		}
	}
	if len(res.Skipped) > 0 {
		fmt.Println("Already exists:")
		for _, item := range res.Skipped {
			fmt.Printf("  - %s\n", item)
		}
	}
	if len(res.Created) == 0 && len(res.Migrated) == 0 {
		fmt.Println("\nNothing to do — board already initialized.")
	} else {
		fmt.Println("\nBoard initialized. Run `mdboard` to start.")
	}
}
