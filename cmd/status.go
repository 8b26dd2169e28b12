package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/edutools/edutools/internal/config"
	"github.com/edutools/edutools/internal/dependency"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show edutools status",
	RunE:  runStatus,
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfgPath := cfgFile
	if cfgPath == "" {
		cfgPath = config.ConfigPath()
	}

	fmt.Printf("%s edutools Status\n\n", logo)

	_, statErr := os.Stat(cfgPath)
	cfgMark := "✗"
	if statErr == nil {
		cfgMark = "✓"
	}
	fmt.Printf("Config:    %s %s\n", cfgPath, cfgMark)

	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("  (could not load config: %v)\n", err)
		return nil
	}

	tokenMark := "(not set)"
	if cfg.API.Token != "" {
		tokenMark = "✓"
	}
	fmt.Printf("API:       %s\n", cfg.API.BaseURL)
	fmt.Printf("Token:     %s\n", tokenMark)
	fmt.Printf("Transport: %s", cfg.Gateway.Transport)
	if cfg.Gateway.Transport == "http" {
		fmt.Printf(" (%s%s)", cfg.ListenAddr(), cfg.Gateway.Path)
	}
	fmt.Println()
	binding := "strict"
	if cfg.Tools.LenientBinding {
		binding = "lenient"
	}
	fmt.Printf("Binding:   %s\n\n", binding)

	c, err := dependency.New(cfg)
	if err != nil {
		fmt.Printf("  (could not build services: %v)\n", err)
		return nil
	}
	ops := c.MCPServer().ListOperations()
	fmt.Printf("Tools:     %d registered, %d enabled\n", len(c.Registry().Names()), len(ops))
	return nil
}
