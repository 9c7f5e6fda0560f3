package rule

import "strings"

// internalPrefix and roleSeparator form the identity of helper rules that a
// macro spawns alongside its public rule: "_<base>#<role>".
const (
	internalPrefix = "_"
	roleSeparator  = "#"
)

// InternalName derives the deterministic identifier of an internal helper
// rule from its public base name and a role. It fails fast when the base name
// already matches the derived pattern, so a helper can never collide with a
// user-declared rule of the same shape.
func InternalName(base, role string) (string, error) {
	if base == "" {
		return "", &ConfigurationError{Rule: base, Argument: "name", Reason: "empty rule name"}
	}
	if role == "" {
		return "", &ConfigurationError{Rule: base, Argument: "tag", Reason: "empty helper role"}
	}
	if IsInternalName(base) {
		return "", &ConfigurationError{
			Rule:     base,
			Argument: "name",
			Reason:   "name already matches the internal helper pattern _<name>#<role>",
		}
	}
	return internalPrefix + base + roleSeparator + role, nil
}

// IsInternalName reports whether name matches the derived helper pattern.
func IsInternalName(name string) bool {
	return strings.HasPrefix(name, internalPrefix) && strings.Contains(name, roleSeparator)
}

// ManifestName derives the companion manifest file name for a bundle
// artifact: a trailing ".js" suffix is stripped and "-manifest.json"
// appended. The two are always produced as a pair.
func ManifestName(artifact string) string {
	return strings.TrimSuffix(artifact, ".js") + "-manifest.json"
}
