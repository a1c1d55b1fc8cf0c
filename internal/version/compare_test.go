package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckSchemaCompatibility(t *testing.T) {
	tests := []struct {
		name           string
		libraryVersion string
		schemaVersion  string
		expectError    bool
		errorContains  string
	}{
		// Compatible cases
		{
			name:           "exact match",
			libraryVersion: "1.2.0",
			schemaVersion:  "1.2.0",
			expectError:    false,
		},
		{
			name:           "library patch higher",
			libraryVersion: "1.2.1",
			schemaVersion:  "1.2.0",
			expectError:    false,
		},
		{
			name:           "schema patch higher",
			libraryVersion: "1.2.0",
			schemaVersion:  "1.2.5",
			expectError:    false,
		},
		{
			name:           "same major minor different patch",
			libraryVersion: "2.5.10",
			schemaVersion:  "2.5.3",
			expectError:    false,
		},

		// Incompatible cases
		{
			name:           "library minor higher",
			libraryVersion: "1.3.0",
			schemaVersion:  "1.2.0",
			expectError:    true,
			errorContains:  "minor version mismatch",
		},
		{
			name:           "library minor lower",
			libraryVersion: "1.1.0",
			schemaVersion:  "1.2.0",
			expectError:    true,
			errorContains:  "minor version mismatch",
		},
		{
			name:           "major version differs",
			libraryVersion: "2.0.0",
			schemaVersion:  "1.2.0",
			expectError:    true,
			errorContains:  "major version mismatch",
		},
		{
			name:           "library is main",
			libraryVersion: "main",
			schemaVersion:  "1.2.0",
			expectError:    false,
		},
		{
			name:           "library is main with newer schema",
			libraryVersion: "main",
			schemaVersion:  "1.3.0",
			expectError:    false,
		},
		{
			name:           "both are main",
			libraryVersion: "main",
			schemaVersion:  "main",
			expectError:    false,
		},
		{
			name:           "schema is main",
			libraryVersion: "1.2.0",
			schemaVersion:  "main",
			expectError:    false,
		},

		// Edge cases with v prefix
		{
			name:           "v prefix on library",
			libraryVersion: "v1.2.0",
			schemaVersion:  "1.2.0",
			expectError:    false,
		},
		{
			name:           "v prefix on schema",
			libraryVersion: "1.2.0",
			schemaVersion:  "v1.2.0",
			expectError:    false,
		},
		{
			name:           "v prefix on both",
			libraryVersion: "v1.2.0",
			schemaVersion:  "v1.2.0",
			expectError:    false,
		},

		// Edge cases with prerelease and metadata
		{
			name:           "prerelease version",
			libraryVersion: "1.2.0-alpha",
			schemaVersion:  "1.2.0",
			expectError:    false,
		},
		{
			name:           "build metadata",
			libraryVersion: "1.2.0+build123",
			schemaVersion:  "1.2.0",
			expectError:    false,
		},

		// Invalid versions
		{
			name:           "invalid library version",
			libraryVersion: "not-a-version",
			schemaVersion:  "1.2.0",
			expectError:    true,
			errorContains:  "invalid library version",
		},
		{
			name:           "invalid schema version",
			libraryVersion: "1.2.0",
			schemaVersion:  "not-a-version",
			expectError:    true,
			errorContains:  "invalid schema version",
		},
		{
			name:           "empty library version",
			libraryVersion: "",
			schemaVersion:  "1.2.0",
			expectError:    true,
			errorContains:  "invalid library version",
		},
		{
			name:           "empty schema version",
			libraryVersion: "1.2.0",
			schemaVersion:  "",
			expectError:    true,
			errorContains:  "invalid schema version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSchemaCompatibility(tt.libraryVersion, tt.schemaVersion)

			if tt.expectError {
				require.Error(t, err)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestGetVersion(t *testing.T) {
	v := GetVersion()
	assert.Equal(t, Version, v)
}
