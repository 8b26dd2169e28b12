package tool

// ToolsConfig controls how tool arguments are bound.
type ToolsConfig struct {
	// LenientBinding substitutes zero values for missing required arguments
	// instead of failing the call.
	LenientBinding bool `json:"lenientBinding" yaml:"lenientBinding"`
	// Disabled lists tool names hidden from the MCP endpoint.
	Disabled []string `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

func DefaultToolsConfig() ToolsConfig {
	return ToolsConfig{}
}
