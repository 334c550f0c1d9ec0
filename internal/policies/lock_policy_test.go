package policies

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crebforge/internal/types"
)

func TestLockPolicyValidateSpec(t *testing.T) {
	policy := NewLockPolicy()

	tests := []struct {
		name    string
		spec    types.PackageSpec
		wantErr string
	}{
		{
			name: "implicit embedded",
			spec: types.PackageSpec{Name: "creb", Source: "crate"},
		},
		{
			name: "implicit pinned via lock_file",
			spec: types.PackageSpec{Name: "creb", Source: "crate", LockFile: "Cargo.lock"},
		},
		{
			name: "explicit embedded",
			spec: types.PackageSpec{Name: "creb", Source: "crate", LockMode: types.LockModeEmbedded},
		},
		{
			name:    "unknown mode",
			spec:    types.PackageSpec{Name: "creb", Source: "crate", LockMode: "frozen"},
			wantErr: "must be embedded or pinned",
		},
		{
			name:    "pinned without lock file",
			spec:    types.PackageSpec{Name: "creb", Source: "crate", LockMode: types.LockModePinned},
			wantErr: "requires lock_file",
		},
		{
			name:    "embedded with explicit lock file",
			spec:    types.PackageSpec{Name: "creb", Source: "crate", LockMode: types.LockModeEmbedded, LockFile: "Cargo.lock"},
			wantErr: "contradicts an explicit lock_file",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := policy.ValidateSpec(tt.spec)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestLockPolicyDescriptorEmbedded(t *testing.T) {
	spec := types.PackageSpec{Name: "creb", Source: "crate"}

	desc, record, err := NewLockPolicy().Descriptor(spec, "/project")
	require.NoError(t, err)
	assert.Equal(t, types.LockModeEmbedded, desc.LockMode)
	assert.Equal(t, filepath.Join("/project", "crate"), desc.SourcePath)
	assert.Nil(t, desc.LockFile)
	assert.Equal(t, ActionLockEmbedded, record.Action)
}

func TestLockPolicyDescriptorPinned(t *testing.T) {
	spec := types.PackageSpec{Name: "creb", Source: "crate", LockFile: "pins/Cargo.lock"}

	desc, record, err := NewLockPolicy().Descriptor(spec, "/project")
	require.NoError(t, err)
	assert.Equal(t, types.LockModePinned, desc.LockMode)
	require.NotNil(t, desc.LockFile)
	assert.Equal(t, filepath.Join("/project", "pins", "Cargo.lock"), desc.LockFile.Path)
	assert.Equal(t, ActionLockPinned, record.Action)
	assert.Equal(t, "pins/Cargo.lock", record.Value)
}

func TestLockPolicyDescriptorKeepsAbsolutePaths(t *testing.T) {
	spec := types.PackageSpec{Name: "creb", Source: "/abs/crate", LockFile: "/abs/Cargo.lock"}

	desc, _, err := NewLockPolicy().Descriptor(spec, "/project")
	require.NoError(t, err)
	assert.Equal(t, "/abs/crate", desc.SourcePath)
	assert.Equal(t, "/abs/Cargo.lock", desc.LockFile.Path)
}
