package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/deepnoodle-ai/bfc"
	"github.com/deepnoodle-ai/bfc/dis"
	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var disCmd = &cobra.Command{
	Use:   "dis <source>",
	Short: "List the folded operations of a program",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		prog, err := bfc.Parse(string(data), bfc.WithFilename(args[0]))
		if err != nil {
			return err
		}
		instructions, err := dis.Disassemble(prog)
		if err != nil {
			return err
		}
		out, err := formatListing(instructions, viper.GetString("dis-format"))
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	disCmd.Flags().String("output", "text", "Output format (text or json)")
	viper.BindPFlag("dis-format", disCmd.Flags().Lookup("output"))
	disCmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(
		[]string{"json", "text"}, cobra.ShellCompDirectiveNoFileComp))
}

func formatListing(instructions []dis.Instruction, format string) (string, error) {
	switch strings.ToLower(format) {
	case "", "text":
		var b strings.Builder
		dis.Print(instructions, &b)
		return b.String(), nil
	case "json":
		var data []byte
		var err error
		if color.NoColor {
			data, err = json.MarshalIndent(instructions, "", "  ")
		} else {
			data, err = prettyjson.Marshal(instructions)
		}
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil
	default:
		return "", fmt.Errorf("unknown output format: %s", format)
	}
}
