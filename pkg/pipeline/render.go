package pipeline

import (
	"fmt"

	"github.com/matzehuels/driftgrid/pkg/engine"
	"github.com/matzehuels/driftgrid/pkg/render/sink"
)

// Render generates output artifacts in the requested formats.
func Render(f engine.Frame, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := sink.Render(f, format, opts.SinkOptions())
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
