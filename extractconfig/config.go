// Copyright 2025 Binaek Sarkar
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package extractconfig loads and validates the extraction config document
//: a TOML file naming, per IFC class, how each output field is resolved
// from the raw entity. The config is the single extension point for
// vendor-specific data quirks — every resolution need either fits one of the
// static strategies or drops to a script.
package extractconfig

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// SchemaCompat is the semver constraint this binary accepts for a config's
// schema_version field.
const SchemaCompat = "^1.0.0"

const FileName = "extraction.toml"

var (
	ErrConfigNotFound = errors.New("extraction config not found")
)

// Strategy names a resolution strategy for a single output field.
type Strategy string

const (
	StrategyQuantitySet Strategy = "quantity-set"
	StrategyPropertySet Strategy = "property-set"
	StrategyAttribute   Strategy = "attribute"
	StrategyScript      Strategy = "script"
)

// FieldSpec describes how to resolve one output field for one IFC class.
// Strategies is an ordered fallback chain: extraction tries each strategy in
// turn against the same (Set, Source) addressing and keeps the first
// non-null value. SourceUnit/TargetUnit, when both set, convert that value
// before it's attached to the element — the single place a vendor-specific
// unit quirk gets normalized away.
type FieldSpec struct {
	Field       string           `toml:"field"`
	Strategies  []Strategy       `toml:"strategy"`
	SourceUnit  string           `toml:"source_unit,omitempty"`
	TargetUnit  string           `toml:"target_unit,omitempty"`
	Set         string           `toml:"set,omitempty"`         // pset/qto name, when applicable
	Source      string           `toml:"source,omitempty"`      // raw attribute/source name
	Script      string           `toml:"script,omitempty"`      // JS/TS expression, for StrategyScript
	Constraints []ConstraintSpec `toml:"constraints,omitempty"` // data-quality checks on the resolved value
}

// ConstraintSpec names a data-quality constraint to run against a resolved
// field value. A violation is recorded as a Diagnostic, not an extraction
// failure — the value is still attached to the element.
type ConstraintSpec struct {
	Name string `toml:"name"`
	Args []any  `toml:"args,omitempty"`
}

// ClassSpec is the field list for one normalized IFC class.
type ClassSpec struct {
	Class  string      `toml:"class"`
	Fields []FieldSpec `toml:"fields"`
}

// Config is the parsed extraction.toml document.
type Config struct {
	SchemaVersion string      `toml:"schema_version"`
	Classes       []ClassSpec `toml:"classes"`

	// Location is the directory the config file was found in, not part of
	// the serialized document.
	Location string `toml:"-"`
}

// Load locates and parses an extraction config starting from root, walking
// up the directory tree until one is found.
func Load(ctx context.Context, root string) (*Config, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	path, err := locate(ctx, root)
	if err != nil {
		return nil, errors.Wrap(err, "locate extraction config")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read extraction config")
	}

	var cfg Config
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse extraction config")
	}
	cfg.Location = filepath.Dir(path)

	if err := cfg.checkCompat(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (cfg *Config) checkCompat() error {
	if cfg.SchemaVersion == "" {
		return errors.New("extraction config missing schema_version")
	}
	v, err := semver.NewVersion(cfg.SchemaVersion)
	if err != nil {
		return errors.Wrapf(err, "invalid schema_version %q", cfg.SchemaVersion)
	}
	c, err := semver.NewConstraint(SchemaCompat)
	if err != nil {
		return err
	}
	if !c.Check(v) {
		return fmt.Errorf("extraction config schema_version %s does not satisfy %s", cfg.SchemaVersion, SchemaCompat)
	}
	return nil
}

// ClassSpecFor returns the field spec for a normalized class, or false if the
// config has no entry for it (caller should skip the entity silently).
func (cfg *Config) ClassSpecFor(class string) (ClassSpec, bool) {
	for _, c := range cfg.Classes {
		if c.Class == class {
			return c, true
		}
	}
	return ClassSpec{}, false
}

func locate(ctx context.Context, root string) (string, error) {
	if root == "/" || strings.TrimSpace(root) == "" {
		return "", errors.New("root must not be empty or filesystem root")
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Wrap(err, "absolute path")
	}

	info, err := os.Stat(root)
	if err != nil {
		return "", errors.Wrap(err, "stat root")
	}

	if info.Name() == FileName {
		return root, nil
	}
	if _, err := os.Stat(filepath.Join(root, FileName)); err == nil {
		return filepath.Join(root, FileName), nil
	}

	for {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		parent := filepath.Dir(root)
		if parent == root {
			break
		}
		root = parent
		if root == "/" || (runtime.GOOS == "windows" && strings.HasSuffix(root, `:\`)) {
			break
		}
		if _, err := os.Stat(filepath.Join(root, FileName)); err == nil {
			return filepath.Join(root, FileName), nil
		}
	}

	return "", ErrConfigNotFound
}
