package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"crebforge/internal/types"
)

func TestParseConstraint(t *testing.T) {
	tests := []struct {
		raw     string
		op      types.ConstraintOp
		name    string
		version string
	}{
		{"git=2.40.1", types.ConstraintOpEq, "git", "2.40.1"},
		{"git==2.40.1", types.ConstraintOpEq2, "git", "2.40.1"},
		{"git>=2.40", types.ConstraintOpGte, "git", "2.40"},
		{"git<=2.40", types.ConstraintOpLte, "git", "2.40"},
		{"git>2.39", types.ConstraintOpGt, "git", "2.39"},
		{"git<3.0", types.ConstraintOpLt, "git", "3.0"},
		{"git!=2.38.0", types.ConstraintOpNe, "git", "2.38.0"},
		{"git~=2.40.0", types.ConstraintOpCompat, "git", "2.40.0"},
		{"git", types.ConstraintOpNone, "git", ""},
	}

	for _, tt := range tests {
		constraint, err := ParseConstraint(tt.raw, "test")
		require.NoError(t, err)
		if diff := cmp.Diff(tt.op, constraint.Op); diff != "" {
			t.Fatalf("unexpected op (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(tt.name, constraint.Name); diff != "" {
			t.Fatalf("unexpected name (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(tt.version, constraint.Version); diff != "" {
			t.Fatalf("unexpected version (-want +got):\n%s", diff)
		}
	}
}

func TestParseConstraintTrimsWhitespace(t *testing.T) {
	constraint, err := ParseConstraint("  git >= 2.40  ", "test")
	require.NoError(t, err)
	require.Equal(t, "git", constraint.Name)
	require.Equal(t, "2.40", constraint.Version)
}

func TestParseConstraintEmpty(t *testing.T) {
	_, err := ParseConstraint("   ", "test")
	require.Error(t, err)
}

func TestParseConstraintMissingVersion(t *testing.T) {
	_, err := ParseConstraint("git>=", "test")
	require.Error(t, err)
}

func TestParseConstraintRejectsMalformedOperator(t *testing.T) {
	for _, raw := range []string{"git=>2.40", "git>>2.40", "git~2.40", ">=2.40"} {
		_, err := ParseConstraint(raw, "test")
		require.Error(t, err, "raw: %s", raw)
		require.Contains(t, err.Error(), "invalid constraint")
	}
}
