package output

// RenderOutput is the JSON form of one rendered file.
type RenderOutput struct {
	File  string `json:"file"`
	SQL   string `json:"sql,omitempty"`
	Error string `json:"error,omitempty"`
}

// FunctionInfo is the JSON form of a registry entry.
type FunctionInfo struct {
	Name      string   `json:"name"`
	Args      []string `json:"args"`
	Aggregate bool     `json:"aggregate"`
	Category  string   `json:"category"`
}
