package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/surqlx/surlint/ast"
	"github.com/surqlx/surlint/parser"
)

var parseShowTokens bool

// parseCmd: surlint parse. Dumps the syntax tree of query files.
var parseCmd = &cobra.Command{
	Use:   "parse [files...]",
	Short: "Parse query files and print their syntax trees",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file paths")
			os.Exit(1)
		}

		for _, path := range args {
			content, err := os.ReadFile(path)
			if err != nil {
				logger.Error("Error reading file", zap.String("file", path), zap.Error(err))
				continue
			}
			tree := parser.Parse(string(content))
			fmt.Printf("%s:\n", path)
			dumpNode(tree.Root, 0)
		}
	},
}

func init() {
	parseCmd.Flags().BoolVar(&parseShowTokens, "tokens", false, "Include tokens in the dump")
}

func dumpNode(n *ast.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	span := n.Span()
	if n.Kind == ast.KindError {
		fmt.Printf("%s%s [%d:%d] %s\n", indent, n.Kind, span.Start, span.End, n.Err)
	} else {
		fmt.Printf("%s%s [%d:%d]\n", indent, n.Kind, span.Start, span.End)
	}
	for _, c := range n.Children {
		if c.Node != nil {
			dumpNode(c.Node, depth+1)
		} else if parseShowTokens && c.Token != nil {
			fmt.Printf("%s  %q\n", indent, c.Token.Text)
		}
	}
}
