// Package config discovers, bootstraps and parses the recipe file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rv178/baker/internal/recipe"
)

// FileName is the recipe file created on first run.
const FileName = "recipe.toml"

// FileNames lists the recipe files looked up in a directory, in order.
var FileNames = []string{FileName, "recipe.yaml", "recipe.yml"}

// bootstrap is the content of a freshly generated recipe.
const bootstrap = "[build]\ncmd = \"\"\n"

// file mirrors the on-disk recipe shape shared by the TOML and YAML formats.
type file struct {
	Build  entry             `toml:"build" yaml:"build"`
	Pre    map[string]entry  `toml:"pre" yaml:"pre"`
	Custom map[string]entry  `toml:"custom" yaml:"custom"`
	Env    map[string]string `toml:"env" yaml:"env"`
	Debug  bool              `toml:"debug" yaml:"debug"`
}

type entry struct {
	Cmd string `toml:"cmd" yaml:"cmd"`
	Run bool   `toml:"run" yaml:"run"` // custom tasks only
}

// LoadResult holds the parsed recipe and where it came from.
type LoadResult struct {
	Recipe  *recipe.Recipe
	Path    string
	Created bool // true if the recipe was just bootstrapped; Recipe is nil
}

// Load reads the recipe from dir. If no recipe file exists, a minimal
// recipe.toml is generated and returned with Created set.
func Load(dir string) (*LoadResult, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}

		r, err := Parse(name, data)
		if err != nil {
			return nil, err
		}
		return &LoadResult{Recipe: r, Path: path}, nil
	}

	path, err := Bootstrap(dir)
	if err != nil {
		return nil, err
	}
	return &LoadResult{Path: path, Created: true}, nil
}

// Bootstrap writes a minimal recipe.toml with an empty build command into
// dir. It never overwrites an existing file.
func Bootstrap(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("generating %s: %w", FileName, err)
	}
	if _, err := f.WriteString(bootstrap); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("generating %s: %w", FileName, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("generating %s: %w", FileName, err)
	}
	return path, nil
}

// Parse decodes a recipe, picking the format from the file name.
func Parse(name string, data []byte) (*recipe.Recipe, error) {
	switch filepath.Ext(name) {
	case ".yaml", ".yml":
		r, err := ParseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		return r, nil
	default:
		r, err := ParseTOML(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		return r, nil
	}
}

// toRecipe builds the ordered recipe from the decoded tables and the
// declaration order recovered from the document.
func (f *file) toRecipe(order declOrder) *recipe.Recipe {
	r := &recipe.Recipe{
		Build: recipe.Task{Name: recipe.BuildName, Phase: recipe.Build, Command: f.Build.Cmd},
		Debug: f.Debug,
	}
	for _, name := range order.names(sectionPre, keysOf(f.Pre)) {
		r.Pre = append(r.Pre, recipe.Task{Name: name, Phase: recipe.Pre, Command: f.Pre[name].Cmd})
	}
	for _, name := range order.names(sectionCustom, keysOf(f.Custom)) {
		e := f.Custom[name]
		r.Custom = append(r.Custom, recipe.Task{Name: name, Phase: recipe.Custom, Command: e.Cmd, AutoRun: e.Run})
	}
	for _, key := range order.names(sectionEnv, keysOf(f.Env)) {
		r.Env = append(r.Env, recipe.EnvVar{Key: key, Value: f.Env[key]})
	}
	return r
}

func keysOf[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
