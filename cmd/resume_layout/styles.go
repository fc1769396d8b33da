package main

import (
	"fmt"

	"github.com/jonathan/resume-layout/internal/style"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List the built-in style profiles",
	Args:  cobra.NoArgs,
	RunE:  runStyles,
}

var showStyleCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Print a style profile as YAML",
	Long: `Prints a built-in profile, or the profile loaded from --file after defaults
are applied. The output can be edited and passed back with --style-file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShowStyle,
}

var showStyleFile string

func init() {
	showStyleCmd.Flags().StringVar(&showStyleFile, "file", "", "Path to a YAML or JSON style profile")

	stylesCmd.AddCommand(showStyleCmd)
	rootCmd.AddCommand(stylesCmd)
}

func runStyles(cmd *cobra.Command, _ []string) error {
	for _, name := range style.Names() {
		marker := ""
		if name == style.DefaultName {
			marker = " (default)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", name, marker)
	}
	return nil
}

func runShowStyle(cmd *cobra.Command, args []string) error {
	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	if name != "" && showStyleFile != "" {
		return fmt.Errorf("give a style name or --file, not both")
	}
	if name == "" && showStyleFile == "" {
		name = style.DefaultName
	}

	profile, err := style.Resolve(name, showStyleFile)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal style: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
