package data

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fablemud/engine/internal/agent"
	"github.com/fablemud/engine/internal/world"
)

// WorldDefinition is the cast sheet of one match loaded from YAML: the
// setting, its stages, and the actors with their hidden roles.
type WorldDefinition struct {
	Name     string            `yaml:"name"`
	Briefing string            `yaml:"briefing"`
	Stages   []StageDefinition `yaml:"stages"`
	Actors   []ActorDefinition `yaml:"actors"`
}

// StageDefinition describes one place actors can occupy.
type StageDefinition struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
}

// ActorDefinition describes one cast member. Stage defaults to the
// first stage of the world when empty.
type ActorDefinition struct {
	Name       string `yaml:"name"`
	Role       string `yaml:"role"`
	Appearance string `yaml:"appearance"`
	Intro      string `yaml:"intro"`
	Stage      string `yaml:"stage"`
}

// DefaultStage returns the stage an actor spawns on.
func (d *WorldDefinition) DefaultStage() string {
	if len(d.Stages) == 0 {
		return ""
	}
	return d.Stages[0].Name
}

// StageFor resolves an actor's spawn stage.
func (d *WorldDefinition) StageFor(a ActorDefinition) string {
	if a.Stage != "" {
		return a.Stage
	}
	return d.DefaultStage()
}

var castRoles = map[string]bool{
	agent.RoleWerewolf: true,
	agent.RoleSeer:     true,
	agent.RoleWitch:    true,
	agent.RoleVillager: true,
}

// Validate checks that the definition can spawn a playable match: at
// least one stage, at least one werewolf facing at least one town
// actor, known roles only, no duplicate names, and no dangling stage
// references. Names collide on their canonical form, the same way the
// spawn path addresses them.
func (d *WorldDefinition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("world: name is required")
	}
	if len(d.Stages) == 0 {
		return fmt.Errorf("world %s: at least one stage is required", d.Name)
	}

	seen := map[string]string{world.CanonicalName(d.Name): "world"}
	stages := make(map[string]bool, len(d.Stages))
	for _, s := range d.Stages {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("world %s: stage with empty name", d.Name)
		}
		key := world.CanonicalName(s.Name)
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("world %s: stage %q collides with %s", d.Name, s.Name, prev)
		}
		seen[key] = fmt.Sprintf("stage %q", s.Name)
		stages[key] = true
	}

	wolves, town := 0, 0
	for _, a := range d.Actors {
		if strings.TrimSpace(a.Name) == "" {
			return fmt.Errorf("world %s: actor with empty name", d.Name)
		}
		key := world.CanonicalName(a.Name)
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("world %s: actor %q collides with %s", d.Name, a.Name, prev)
		}
		seen[key] = fmt.Sprintf("actor %q", a.Name)

		if !castRoles[a.Role] {
			return fmt.Errorf("world %s: actor %q has unknown role %q", d.Name, a.Name, a.Role)
		}
		if a.Role == agent.RoleWerewolf {
			wolves++
		} else {
			town++
		}
		if a.Stage != "" && !stages[world.CanonicalName(a.Stage)] {
			return fmt.Errorf("world %s: actor %q references unknown stage %q", d.Name, a.Name, a.Stage)
		}
	}
	if wolves == 0 {
		return fmt.Errorf("world %s: at least one werewolf is required", d.Name)
	}
	if town == 0 {
		return fmt.Errorf("world %s: at least one town actor is required", d.Name)
	}
	return nil
}

// LoadWorld loads and validates a single world definition from a YAML
// file.
func LoadWorld(path string) (*WorldDefinition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read world: %w", err)
	}
	var d WorldDefinition
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse world %s: %w", path, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// WorldLibrary holds all loaded world definitions indexed by canonical
// name.
type WorldLibrary struct {
	worlds map[string]*WorldDefinition
}

// LoadWorldLibrary loads every *.yaml file in a directory into a
// library. Duplicate world names across files are an error.
func LoadWorldLibrary(dir string) (*WorldLibrary, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("scan worlds %s: %w", dir, err)
	}
	sort.Strings(paths)
	lib := &WorldLibrary{worlds: make(map[string]*WorldDefinition, len(paths))}
	for _, path := range paths {
		d, err := LoadWorld(path)
		if err != nil {
			return nil, err
		}
		key := world.CanonicalName(d.Name)
		if _, ok := lib.worlds[key]; ok {
			return nil, fmt.Errorf("world %s: defined twice (%s)", d.Name, path)
		}
		lib.worlds[key] = d
	}
	return lib, nil
}

// Get returns a world definition by name, or nil if not found.
func (l *WorldLibrary) Get(name string) *WorldDefinition {
	return l.worlds[world.CanonicalName(name)]
}

// Names returns the loaded world names in sorted canonical order.
func (l *WorldLibrary) Names() []string {
	names := make([]string, 0, len(l.worlds))
	for key := range l.worlds {
		names = append(names, key)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of loaded worlds.
func (l *WorldLibrary) Count() int {
	return len(l.worlds)
}
