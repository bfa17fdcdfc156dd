package config

import (
	"fmt"
	"slices"
)

// Accepted values of the output and color keys.
var (
	OutputModes = []string{"auto", "text", "markdown", "json"}
	ColorModes  = []string{"auto", "always", "never"}
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(OutputModes, c.Output) {
		return fmt.Errorf("output must be one of %v, got %q", OutputModes, c.Output)
	}
	if !slices.Contains(ColorModes, c.Color) {
		return fmt.Errorf("color must be one of %v, got %q", ColorModes, c.Color)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	}
	for name := range c.Layouts {
		if _, err := c.Configs(name); err != nil {
			return err
		}
	}
	if _, err := c.Configs(c.Layout); err != nil {
		return err
	}
	return nil
}
