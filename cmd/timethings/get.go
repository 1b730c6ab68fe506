package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/timethings/pkg/core"
	"github.com/aretw0/timethings/pkg/header"
)

var getJSON bool

var getCmd = &cobra.Command{
	Use:   "get <id> <path>",
	Short: "Print a frontmatter field of a note",
	Long:  `Print the value at a dotted path ("stats.edited") of a note's frontmatter.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		id, path := args[0], args[1]
		app := openApp()

		var (
			value any
			found bool
		)
		err := app.Vault.ProcessHeader(context.Background(), id, func(m core.Metadata) error {
			value, found = header.Get(m, path)
			return nil
		})
		if err != nil {
			fatal("Failed to read note", err)
		}
		if !found {
			fmt.Fprintf(os.Stderr, "%s: %s not found\n", id, path)
			os.Exit(1)
		}

		if getJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(value); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}
		if s, ok := value.(string); ok {
			fmt.Println(s)
			return
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			fatal("Failed to encode value", err)
		}
		fmt.Print(string(out))
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().BoolVar(&getJSON, "json", false, "Output in JSON format")
}
