// Package config loads and validates the activeenum configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/electwix/activeenum"
	"github.com/electwix/activeenum/internal/ident"
)

// VariantConfig declares one enum member.
type VariantConfig struct {
	Name  string `toml:"name" yaml:"name"`
	Value any    `toml:"value" yaml:"value"`
	Label string `toml:"label" yaml:"label"`
}

// EnumConfig declares one enum type.
type EnumConfig struct {
	Name     string          `toml:"name" yaml:"name"`
	Type     string          `toml:"type" yaml:"type"`
	Repr     string          `toml:"repr" yaml:"repr"`
	DBType   string          `toml:"db_type" yaml:"db_type"`
	Variants []VariantConfig `toml:"variants" yaml:"variants"`
}

// FeaturesConfig toggles backend capabilities. Unset fields follow the dialect.
type FeaturesConfig struct {
	Arrays *bool `toml:"arrays" yaml:"arrays"`
}

// Config mirrors the activeenum configuration file.
type Config struct {
	Package     string         `toml:"package" yaml:"package"`
	Out         string         `toml:"out" yaml:"out"`
	Dialect     string         `toml:"dialect" yaml:"dialect"`
	Features    FeaturesConfig `toml:"features" yaml:"features"`
	EmitGraphQL bool           `toml:"emit_graphql" yaml:"emit_graphql"`
	GraphQLOut  string         `toml:"graphql_out" yaml:"graphql_out"`
	Enums       []EnumConfig   `toml:"enums" yaml:"enums"`
}

// VariantPlan is a validated variant. Value holds the Go type of the enum's kind.
type VariantPlan struct {
	Name  string
	Value any
	Label string
}

// EnumPlan is a validated enum declaration.
type EnumPlan struct {
	Name     string
	Type     string
	Kind     activeenum.Kind
	DBType   string
	Column   activeenum.ColumnDef
	Variants []VariantPlan
}

// JobPlan is the fully-resolved configuration used by downstream stages.
type JobPlan struct {
	Package      string
	Out          string
	Dialect      activeenum.Dialect
	Capabilities activeenum.Capabilities
	// GraphQLOut is the SDL output path, empty when GraphQL emission is off.
	GraphQLOut string
	Enums      []EnumPlan
}

// LoadOptions tunes config loading behavior.
type LoadOptions struct {
	Strict bool
}

// Result wraps a loaded job plan alongside any non-fatal warnings.
type Result struct {
	Plan     JobPlan
	Warnings []string
}

// Load reads, validates, and resolves an activeenum configuration file.
// Files ending in .yaml or .yml are read as YAML, everything else as TOML.
func Load(path string, opts LoadOptions) (Result, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(path, data, opts)
}

// Parse validates and resolves configuration data read from path. The path
// selects the format and anchors relative output directories.
func Parse(path string, data []byte, opts LoadOptions) (Result, error) {
	var res Result

	cfg, unknown, err := decode(path, data)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		message := fmt.Sprintf("%s: unknown configuration keys: %s", path, strings.Join(unknown, ", "))
		if opts.Strict {
			return res, errors.New(message)
		}
		res.Warnings = append(res.Warnings, message)
	}

	plan, err := Resolve(path, cfg)
	if err != nil {
		return res, err
	}
	res.Plan = plan
	return res, nil
}

// decode parses data strictly first so unknown keys can be reported, then
// leniently when the strict pass only failed on those keys.
func decode(path string, data []byte) (Config, []string, error) {
	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err := dec.Decode(&cfg)
		if err == nil || errors.Is(err, io.EOF) {
			return cfg, nil, nil
		}
		var typeErr *yaml.TypeError
		if !errors.As(err, &typeErr) || !allUnknownFields(typeErr.Errors) {
			return Config{}, nil, err
		}
		cfg = Config{}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, nil, err
		}
		return cfg, unknownYAMLFields(typeErr.Errors), nil
	default:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err := dec.Decode(&cfg)
		if err == nil {
			return cfg, nil, nil
		}
		var strictErr *toml.StrictMissingError
		if !errors.As(err, &strictErr) {
			return Config{}, nil, err
		}
		cfg = Config{}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, nil, err
		}
		unknown := make([]string, 0, len(strictErr.Errors))
		for _, e := range strictErr.Errors {
			unknown = append(unknown, strings.Join(e.Key(), "."))
		}
		return cfg, unknown, nil
	}
}

func allUnknownFields(messages []string) bool {
	for _, m := range messages {
		if !strings.Contains(m, " not found in type ") {
			return false
		}
	}
	return true
}

// unknownYAMLFields extracts key names from yaml.v3 messages of the form
// "line 3: field foo not found in type config.Config".
func unknownYAMLFields(messages []string) []string {
	keys := make([]string, 0, len(messages))
	for _, m := range messages {
		_, rest, ok := strings.Cut(m, "field ")
		if !ok {
			keys = append(keys, m)
			continue
		}
		key, _, _ := strings.Cut(rest, " not found")
		keys = append(keys, key)
	}
	return keys
}

// Resolve validates cfg, read from path, into a job plan.
func Resolve(path string, cfg Config) (JobPlan, error) {
	if err := validatePackage(path, cfg.Package); err != nil {
		return JobPlan{}, err
	}

	out, err := resolveOut(path, "out", cfg.Out)
	if err != nil {
		return JobPlan{}, err
	}

	dialect := activeenum.Postgres
	if cfg.Dialect != "" {
		dialect, err = activeenum.ParseDialect(cfg.Dialect)
		if err != nil {
			return JobPlan{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	caps := activeenum.CapabilitiesFor(dialect)
	if cfg.Features.Arrays != nil {
		caps.Arrays = *cfg.Features.Arrays
	}

	plan := JobPlan{
		Package:      cfg.Package,
		Out:          out,
		Dialect:      dialect,
		Capabilities: caps,
	}

	if cfg.EmitGraphQL {
		gqlOut := cfg.GraphQLOut
		if gqlOut == "" {
			gqlOut = filepath.Join(filepath.Clean(cfg.Out), "enums.graphql")
		}
		plan.GraphQLOut, err = resolveOut(path, "graphql_out", gqlOut)
		if err != nil {
			return JobPlan{}, err
		}
	}

	if len(cfg.Enums) == 0 {
		return JobPlan{}, fmt.Errorf("%s: at least one enum is required", path)
	}
	names := make(map[string]int, len(cfg.Enums))
	types := make(map[string]string, len(cfg.Enums))
	for i, ec := range cfg.Enums {
		ep, err := resolveEnum(ec)
		if err != nil {
			return JobPlan{}, fmt.Errorf("%s: enums[%d]: %w", path, i, err)
		}
		if j, dup := names[ep.Name]; dup {
			return JobPlan{}, fmt.Errorf("%s: enums[%d]: name %q already used by enums[%d]", path, i, ep.Name, j)
		}
		names[ep.Name] = i
		if other, dup := types[ep.Type]; dup {
			return JobPlan{}, fmt.Errorf("%s: enums[%d]: type %s already used by enum %q", path, i, ep.Type, other)
		}
		types[ep.Type] = ep.Name
		plan.Enums = append(plan.Enums, ep)
	}

	return plan, nil
}

func resolveEnum(ec EnumConfig) (EnumPlan, error) {
	if ec.Name == "" {
		return EnumPlan{}, errors.New("name is required")
	}
	ep := EnumPlan{Name: ec.Name, Type: ec.Type, DBType: ec.DBType}

	if ep.Type == "" {
		ep.Type = ident.Exported(ident.Synthesize(ec.Name))
	} else if !token.IsIdentifier(ep.Type) || !token.IsExported(ep.Type) {
		return EnumPlan{}, fmt.Errorf("type %q must be an exported Go identifier", ep.Type)
	}

	repr := ec.Repr
	if repr == "" {
		repr = "string"
	}
	kind, err := activeenum.ParseKind(repr)
	if err != nil {
		return EnumPlan{}, err
	}
	ep.Kind = kind

	if ec.DBType != "" {
		ep.Column, err = activeenum.ParseColumnType(ec.DBType)
		if err != nil {
			return EnumPlan{}, err
		}
	}

	if len(ec.Variants) == 0 {
		return EnumPlan{}, fmt.Errorf("enum %q has no variants", ec.Name)
	}
	for j, vc := range ec.Variants {
		if vc.Value == nil {
			return EnumPlan{}, fmt.Errorf("variants[%d]: value is required", j)
		}
		value, err := kind.Convert(vc.Value)
		if err != nil {
			return EnumPlan{}, fmt.Errorf("variants[%d]: value: %w", j, err)
		}
		ep.Variants = append(ep.Variants, VariantPlan{Name: vc.Name, Value: value, Label: vc.Label})
	}
	return ep, nil
}

func validatePackage(path, pkg string) error {
	if pkg == "" {
		return fmt.Errorf("%s: package is required", path)
	}
	if !token.IsIdentifier(pkg) || token.Lookup(pkg) != token.IDENT {
		return fmt.Errorf("%s: invalid package name %q", path, pkg)
	}
	return nil
}

func resolveOut(path, field, out string) (string, error) {
	if out == "" {
		return "", fmt.Errorf("%s: %s is required", path, field)
	}
	if filepath.IsAbs(out) {
		return "", fmt.Errorf("%s: %s must be a relative path", path, field)
	}

	cleaned := filepath.Clean(out)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %s must not traverse upwards", path, field)
	}

	baseDir := filepath.Dir(path)
	return filepath.Join(baseDir, cleaned), nil
}
