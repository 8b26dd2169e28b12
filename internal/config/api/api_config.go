package api

// APIConfig points at the education platform's resource API.
type APIConfig struct {
	BaseURL string `json:"baseUrl" yaml:"baseUrl"`
	Token   string `json:"token,omitempty" yaml:"token,omitempty"`
	Timeout int    `json:"timeout" yaml:"timeout"` // seconds
}

func DefaultAPIConfig() APIConfig {
	return APIConfig{BaseURL: "http://localhost:5000/api", Timeout: 30}
}
