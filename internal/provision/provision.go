package provision

import (
	_ "embed"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

//go:embed recipe.yaml
var recipeYAML []byte

var (
	ErrInvalidPlan = errors.New("invalid provisioning plan")
)

// An ordered sequence of OS-package install steps for the base image.
type Plan struct {
	Image string `yaml:"image"` // Base image the steps apply to.
	Steps []Step `yaml:"steps"`
}

// A single named install step.
type Step struct {
	Name string `yaml:"name"`
	Run  string `yaml:"run"`
}

// Loads the embedded provisioning plan.
func Load() (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(recipeYAML, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPlan, err)
	}

	if p.Image == "" || len(p.Steps) == 0 {
		return nil, fmt.Errorf("%w: plan must declare an image and at least one step", ErrInvalidPlan)
	}
	for i, s := range p.Steps {
		if s.Run == "" {
			return nil, fmt.Errorf("%w: step %d has no command", ErrInvalidPlan, i+1)
		}
	}

	return &p, nil
}

// Renders the plan as a shell script.
//
// The script stops at the first failing step so a partially provisioned
// image is never mistaken for a finished one.
func (p *Plan) Render(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "#!/bin/sh\n# Provisions the %s base image.\nset -eu\n", p.Image); err != nil {
		return err
	}

	for _, s := range p.Steps {
		if _, err := fmt.Fprintf(w, "\n# %s\n%s\n", s.Name, s.Run); err != nil {
			return err
		}
	}

	return nil
}
