package toolkit

// OperationInfo is the describe_operations entry for one operation.
type OperationInfo struct {
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// SchemaFor builds the JSON schema object for d's caller-visible parameters.
func SchemaFor(d *Descriptor) map[string]any {
	properties := make(map[string]any)
	required := []string{}

	for _, p := range d.CallerParams() {
		properties[p.Name] = map[string]any{
			"description": p.Description,
			"type":        p.Kind.JSONType(),
		}
		if p.Required() {
			required = append(required, p.Name)
		}
	}

	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

// Describe returns the description and input schema of every operation.
func Describe(r *Registry) map[string]OperationInfo {
	out := make(map[string]OperationInfo)
	for _, d := range r.Descriptors() {
		out[d.Name] = OperationInfo{
			Description: d.Description,
			InputSchema: SchemaFor(d),
		}
	}
	return out
}
