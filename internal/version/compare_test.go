package version

import (
	"testing"

	"github.com/rxtech-lab/argo-replay/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConstraint(t *testing.T) {
	tests := []struct {
		name          string
		engineVersion string
		constraint    string
		expectError   bool
		errorContains string
	}{
		{
			name:          "empty constraint",
			engineVersion: "1.2.0",
			constraint:    "",
			expectError:   false,
		},
		{
			name:          "exact match",
			engineVersion: "1.2.0",
			constraint:    "1.2.0",
			expectError:   false,
		},
		{
			name:          "range",
			engineVersion: "v1.4.2",
			constraint:    ">=1.0.0, <2.0.0",
			expectError:   false,
		},
		{
			name:          "tilde",
			engineVersion: "1.2.9",
			constraint:    "~1.2",
			expectError:   false,
		},
		{
			name:          "caret allows minor",
			engineVersion: "1.9.0",
			constraint:    "^1.2",
			expectError:   false,
		},
		{
			name:          "development build",
			engineVersion: "main",
			constraint:    ">=9.0.0",
			expectError:   false,
		},
		{
			name:          "prerelease treated as release",
			engineVersion: "1.2.0-rc.1",
			constraint:    ">=1.2.0",
			expectError:   false,
		},
		{
			name:          "major too new",
			engineVersion: "2.0.0",
			constraint:    "^1.0",
			expectError:   true,
			errorContains: "does not satisfy",
		},
		{
			name:          "below minimum",
			engineVersion: "0.9.0",
			constraint:    ">=1.0.0",
			expectError:   true,
			errorContains: "does not satisfy",
		},
		{
			name:          "invalid constraint",
			engineVersion: "1.0.0",
			constraint:    "newest please",
			expectError:   true,
			errorContains: "invalid engine_version constraint",
		},
		{
			name:          "invalid engine version",
			engineVersion: "not-a-version",
			constraint:    ">=1.0.0",
			expectError:   true,
			errorContains: "invalid engine version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckConstraint(tt.engineVersion, tt.constraint)

			if tt.expectError {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidVersion))

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

func TestCurrentVersionIsValid(t *testing.T) {
	require.NoError(t, CheckConstraint(GetVersion(), ">=0.0.1"))
}
