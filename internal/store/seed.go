package store

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Seed is the YAML document used to populate a sandbox:
//
//	issues:
//	  - key: RT-1
//	    summary: I was in To Do - expected to be in Done
//	    status: To Do
//	    type: Story
//	    parent: RT-100
//	    labels: [rule-testing]
//	transitions:
//	  - {from: To Do, to: In Progress}
type Seed struct {
	Issues      []SandboxIssue      `yaml:"issues"`
	Transitions []SandboxTransition `yaml:"transitions"`
}

// ParseSeed decodes a seed document.
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parsing seed: %w", err)
	}
	return &seed, nil
}

// LoadSeed reads the seed file at path into the store. Issues are added in
// file order, which becomes their discovery order. Transitions are only
// replaced when the file lists any.
func LoadSeed(ctx context.Context, s Store, path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed %s: %w", path, err)
	}

	seed, err := ParseSeed(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if err := s.UpsertIssues(ctx, seed.Issues); err != nil {
		return nil, fmt.Errorf("loading seed issues: %w", err)
	}
	if len(seed.Transitions) > 0 {
		if err := s.SetTransitions(ctx, seed.Transitions); err != nil {
			return nil, fmt.Errorf("loading seed transitions: %w", err)
		}
	}

	return seed, nil
}
