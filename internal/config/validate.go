package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Valid enum values for configuration fields.
var (
	ValidThemeNames = []string{"default", "none", "nord", "orange"}
	ValidThemeModes = []string{"auto", "light", "dark"}
)

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// validatePaths checks the path fields of cfg.
func validatePaths(cfg *Config, contextInfo string) error {
	fields := []struct {
		name, value string
	}{
		{"dir", cfg.Dir},
		{"journal", cfg.Journal},
	}
	for i, q := range cfg.Saved {
		fields = append(fields, struct{ name, value string }{fmt.Sprintf("queries[%d].base_path", i), q.BasePath})
	}
	for _, f := range fields {
		if err := ValidatePath(f.value, f.name); err != nil {
			return withContext(err, contextInfo)
		}
	}
	return nil
}

// validateQuery checks that a saved query selects exactly one namespace.
func validateQuery(i int, q QueryConfig, contextInfo string) error {
	selectors := []string{"namespace_id", "binding"}
	if (q.NamespaceID == "") == (q.Binding == "") {
		return withContext(fmt.Errorf("invalid queries[%d]: set exactly one of %s", i, formatOptions(selectors)), contextInfo)
	}
	return nil
}

// parseTTL parses a positive content_ttl duration.
func parseTTL(value, contextInfo string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, withContext(fmt.Errorf("invalid content_ttl %q: %w", value, err), contextInfo)
	}
	if d <= 0 {
		return 0, withContext(fmt.Errorf("invalid content_ttl %q: must be positive", value), contextInfo)
	}
	return d, nil
}

func withContext(err error, contextInfo string) error {
	if contextInfo == "" {
		return err
	}
	return fmt.Errorf("%w in %s", err, contextInfo)
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
