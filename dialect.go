package activeenum

import (
	"fmt"
	"strings"
)

// Dialect identifies the SQL backend an enum is persisted to.
type Dialect string

const (
	// Postgres is PostgreSQL; enum columns are nominal types.
	Postgres Dialect = "postgres"
	// MySQL is MySQL or MariaDB; enum columns are inline value lists.
	MySQL Dialect = "mysql"
	// SQLite stores enums as plain text or integer columns.
	SQLite Dialect = "sqlite"
)

// ParseDialect resolves a dialect name, accepting common aliases.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "postgres", "postgresql", "pg":
		return Postgres, nil
	case "mysql", "mariadb":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return "", fmt.Errorf("activeenum: unsupported dialect %q", name)
}

// Feature represents a backend capability that changes enum handling.
type Feature int

const (
	// FeatureArrays indicates native array columns that can hold representations.
	FeatureArrays Feature = iota

	// FeatureEnumTypes indicates nominal enum types that require an explicit cast.
	FeatureEnumTypes

	// FeatureUnsigned indicates unsigned integer column types.
	FeatureUnsigned
)

var featureNames = map[Feature]string{
	FeatureArrays:    "arrays",
	FeatureEnumTypes: "enum_types",
	FeatureUnsigned:  "unsigned",
}

// String returns the human-readable name of a feature.
func (f Feature) String() string {
	if name, ok := featureNames[f]; ok {
		return name
	}
	return "unknown"
}

var dialectFeatures = map[Dialect]map[Feature]bool{
	Postgres: {FeatureArrays: true, FeatureEnumTypes: true},
	MySQL:    {FeatureUnsigned: true},
	SQLite:   {},
}

// SupportsFeature reports whether d supports f.
func (d Dialect) SupportsFeature(f Feature) bool {
	return dialectFeatures[d][f]
}

// Capabilities are the deployment switches consulted at the persistence
// boundary.
type Capabilities struct {
	// Arrays enables decoding native arrays of representations.
	Arrays bool
}

// CapabilitiesFor returns the default capabilities of d.
func CapabilitiesFor(d Dialect) Capabilities {
	return Capabilities{Arrays: d.SupportsFeature(FeatureArrays)}
}
