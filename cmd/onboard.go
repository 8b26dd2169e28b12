package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/edutools/edutools/internal/config"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize configuration",
	RunE:  runOnboard,
}

func runOnboard(_ *cobra.Command, _ []string) error {
	cfgPath := cfgFile
	if cfgPath == "" {
		cfgPath = config.ConfigPath()
	}

	if _, err := os.Stat(cfgPath); err == nil {
		fmt.Printf("Config already exists at %s\n", cfgPath)
		fmt.Printf("Press Enter to refresh (keep existing values) or Ctrl+C to cancel: ")
		fmt.Scanln()
		existing, loadErr := config.Load(cfgPath)
		if loadErr != nil {
			def := config.DefaultConfig()
			existing = &def
		}
		if err := config.Save(existing, cfgPath); err != nil {
			return err
		}
		fmt.Printf("✓ Config refreshed at %s\n", cfgPath)
	} else {
		cfg := config.DefaultConfig()
		if err := config.Save(&cfg, cfgPath); err != nil {
			return err
		}
		fmt.Printf("✓ Created config at %s\n", cfgPath)
	}

	fmt.Printf("\n%s edutools is ready!\n\n", logo)
	fmt.Println("Next steps:")
	fmt.Printf("  1. Set api.baseUrl in %s (or EDUTOOLS_API_BASE_URL)\n", cfgPath)
	fmt.Println("  2. Export EDUTOOLS_API_TOKEN with a platform API token")
	fmt.Println("  3. List tools: edutools tools list")
	fmt.Println("  4. Register with your agent: edutools serve")
	return nil
}
