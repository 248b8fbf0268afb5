package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hupe1980/pfamprep"
)

var rootCmd = &cobra.Command{
	Use:   "pfamprep",
	Short: "Prepare the Pfam dataset for protein family classification",
	Long: `pfamprep combines raw Pfam shards, builds a stratified train/dev/test
split with class weights and tokenizes the splits for ESM-2.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	addGlobalFlags(rootCmd)

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(stageCmd)
	rootCmd.AddCommand(curateCmd)
	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func printError(err error) {
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	var se *pfamprep.StageError
	if errors.As(err, &se) {
		fmt.Fprintf(os.Stderr, "%s %s: %v\n", red("error:"), se.Stage, se.Err)
		return
	}
	fmt.Fprintf(os.Stderr, "%s %v\n", red("error:"), err)
}
