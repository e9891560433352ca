// Package seed provides the initial dashboard state.
package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/rpggio/gigboard/internal/domain/dashboard"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultSeed []byte

// Default returns the built-in seed state.
func Default() (dashboard.State, error) {
	return Parse(defaultSeed)
}

// Load reads a seed file. An empty path returns the built-in seed.
func Load(path string) (dashboard.State, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return dashboard.State{}, fmt.Errorf("reading seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML seed document.
func Parse(data []byte) (dashboard.State, error) {
	var state dashboard.State
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&state); err != nil {
		return dashboard.State{}, fmt.Errorf("parsing seed: %w", err)
	}
	if err := validate(state); err != nil {
		return dashboard.State{}, err
	}
	if state.Clients == nil {
		state.Clients = []dashboard.Client{}
	}
	if state.Projects == nil {
		state.Projects = []dashboard.Project{}
	}
	if state.Payments == nil {
		state.Payments = []dashboard.Payment{}
	}
	return state, nil
}

func validate(state dashboard.State) error {
	for i, c := range state.Clients {
		if c.ID == "" {
			return fmt.Errorf("seed client %d: %w: id is required", i, dashboard.ErrInvalidInput)
		}
		if err := dashboard.ValidateClient(c); err != nil {
			return fmt.Errorf("seed client %s: %w", c.ID, err)
		}
	}
	for i, p := range state.Projects {
		if p.ID == "" {
			return fmt.Errorf("seed project %d: %w: id is required", i, dashboard.ErrInvalidInput)
		}
		if err := dashboard.ValidateProject(p); err != nil {
			return fmt.Errorf("seed project %s: %w", p.ID, err)
		}
	}
	for i, p := range state.Payments {
		if p.ProjectID == "" || p.Amount <= 0 {
			return fmt.Errorf("seed payment %d: %w", i, dashboard.ErrInvalidInput)
		}
	}
	return nil
}
