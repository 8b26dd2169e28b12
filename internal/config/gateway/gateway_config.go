package gateway

// Transport names the wire transport of the MCP endpoint.
type Transport string

const (
	TransportStdio Transport = "stdio"
	TransportHTTP  Transport = "http"
)

// GatewayConfig holds the agent-facing MCP endpoint settings.
type GatewayConfig struct {
	Transport Transport `json:"transport" yaml:"transport"`
	Host      string    `json:"host" yaml:"host"`
	Port      int       `json:"port" yaml:"port"`
	// Path is the HTTP endpoint path for the streamable HTTP transport.
	Path string `json:"path" yaml:"path"`
}

func DefaultGatewayConfig() GatewayConfig {
	return GatewayConfig{Transport: TransportStdio, Host: "127.0.0.1", Port: 18790, Path: "/mcp"}
}
