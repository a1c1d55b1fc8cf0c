package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckSchemaCompatibility checks if the library version and a config file's
// schema_version are compatible. Returns nil if compatible, error with
// details if not.
//
// Compatibility Rules:
//   - If either version is "main" (development build), compatibility check is skipped
//   - Major versions must match exactly
//   - Minor versions must match exactly
//   - Patch versions can differ (e.g., 1.2.0 is compatible with 1.2.5)
//
// Examples:
//   - Library 1.2.0, Config 1.2.0 -> OK (exact match)
//   - Library 1.2.1, Config 1.2.0 -> OK (patch differs)
//   - Library 1.3.0, Config 1.2.0 -> ERROR (minor differs)
//   - Library 2.0.0, Config 1.2.0 -> ERROR (major differs)
//   - Library main, Config 1.2.0 -> OK (dev build, skip check)
func CheckSchemaCompatibility(libraryVersion, schemaVersion string) error {
	// Strip 'v' prefix if present for consistency
	libraryVersion = strings.TrimPrefix(libraryVersion, "v")
	schemaVersion = strings.TrimPrefix(schemaVersion, "v")

	// Skip version check for "main" (development builds)
	if libraryVersion == "main" || schemaVersion == "main" {
		return nil
	}

	// Parse library version
	librarySemver, err := semver.NewVersion(libraryVersion)
	if err != nil {
		return fmt.Errorf("invalid library version '%s': %w", libraryVersion, err)
	}

	// Parse config schema version
	schemaSemver, err := semver.NewVersion(schemaVersion)
	if err != nil {
		return fmt.Errorf("invalid schema version '%s': %w", schemaVersion, err)
	}

	// Check major version match
	if librarySemver.Major() != schemaSemver.Major() {
		return fmt.Errorf("major version mismatch: library is %d.x.x but config requires %d.x.x",
			librarySemver.Major(), schemaSemver.Major())
	}

	// Check minor version match
	if librarySemver.Minor() != schemaSemver.Minor() {
		return fmt.Errorf("minor version mismatch: library is %d.%d.x but config requires %d.%d.x",
			librarySemver.Major(), librarySemver.Minor(),
			schemaSemver.Major(), schemaSemver.Minor())
	}

	// Patch versions can differ, so we're compatible
	return nil
}
