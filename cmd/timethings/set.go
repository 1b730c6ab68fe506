package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/timethings/pkg/core"
	"github.com/aretw0/timethings/pkg/header"
)

var setCmd = &cobra.Command{
	Use:   "set <id> <path> <value>",
	Short: "Set a frontmatter field of a note",
	Long: `Set the value at a dotted path of a note's frontmatter, creating the
header and intermediate mappings as needed. The value is read as YAML, so
"42" is stored as a number and "[a, b]" as a list.`,
	Args: cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		id, path, raw := args[0], args[1], args[2]
		if _, ok := header.SplitPath(path); !ok {
			fatal("Invalid path", fmt.Errorf("%q", path))
		}

		var value any
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
			fatal("Invalid value", err)
		}

		app := openApp()
		err := app.Vault.ProcessHeader(context.Background(), id, func(m core.Metadata) error {
			header.Set(m, path, value)
			return nil
		})
		if err != nil {
			fatal("Failed to update note", err)
		}
		fmt.Printf("%s: %s set\n", id, path)
	},
}

func init() {
	rootCmd.AddCommand(setCmd)
}
