package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/edutools/edutools/internal/dependency"
	"github.com/edutools/edutools/internal/shared/cmdutils"
	"github.com/edutools/edutools/internal/shared/stringutils"
	"github.com/edutools/edutools/internal/toolkit"
)

var toolsArgs string

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Inspect and call the registered tools",
}

var toolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered tools",
	RunE:  runToolsList,
}

var toolsDescribeCmd = &cobra.Command{
	Use:   "describe [name]",
	Short: "Print the input schema of one tool, or all tools",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runToolsDescribe,
}

var toolsCallCmd = &cobra.Command{
	Use:   "call <name>",
	Short: "Call a tool with a JSON argument object",
	Args:  cobra.ExactArgs(1),
	RunE:  runToolsCall,
}

func init() {
	toolsCallCmd.Flags().StringVarP(&toolsArgs, "args", "a", "{}", "Arguments as a JSON object")

	toolsCmd.AddCommand(toolsListCmd)
	toolsCmd.AddCommand(toolsDescribeCmd)
	toolsCmd.AddCommand(toolsCallCmd)
}

func newContainer() (*dependency.ServiceContainer, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return dependency.New(cfg)
}

func runToolsList(_ *cobra.Command, _ []string) error {
	c, err := newContainer()
	if err != nil {
		return err
	}

	infos := c.MCPServer().DescribeOperations()
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("TOOL"),
		text.FgHiCyan.Sprint("PARAMETERS"),
		text.FgHiCyan.Sprint("DESCRIPTION"),
	})
	for _, name := range c.MCPServer().ListOperations() {
		info := infos[name]
		t.AppendRow(table.Row{name, formatParams(info.InputSchema), stringutils.Truncate(info.Description, 60)})
	}
	t.Render()
	return nil
}

// formatParams renders "a*, b" where * marks required parameters.
func formatParams(schema map[string]any) string {
	props, _ := schema["properties"].(map[string]any)
	required := map[string]bool{}
	if req, ok := schema["required"].([]string); ok {
		for _, r := range req {
			required[r] = true
		}
	}

	names := make([]string, 0, len(props))
	for name := range props {
		if required[name] {
			name += "*"
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func runToolsDescribe(_ *cobra.Command, args []string) error {
	c, err := newContainer()
	if err != nil {
		return err
	}

	infos := c.MCPServer().DescribeOperations()
	var v any = infos
	if len(args) == 1 {
		info, ok := infos[args[0]]
		if !ok {
			return fmt.Errorf("tool %q not found", args[0])
		}
		v = map[string]toolkit.OperationInfo{args[0]: info}
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runToolsCall(_ *cobra.Command, args []string) error {
	c, err := newContainer()
	if err != nil {
		return err
	}

	var callArgs map[string]any
	if err := json.Unmarshal([]byte(toolsArgs), &callArgs); err != nil {
		return fmt.Errorf("parse --args: %w", err)
	}

	out, err := c.MCPServer().Execute(context.Background(), args[0], callArgs)
	if err != nil {
		cmdutils.PrintResult(args[0], toolkit.FailurePayload(err.Error()), true)
		return fmt.Errorf("tool %s failed: %w", args[0], err)
	}
	cmdutils.PrintResult(args[0], out, false)
	return nil
}
