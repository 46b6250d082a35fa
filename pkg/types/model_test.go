package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackageRequirementSpec(t *testing.T) {
	tests := []struct {
		req  PackageRequirement
		want string
	}{
		{PackageRequirement{Project: "nodejs.org", Constraint: "^18"}, "nodejs.org@^18"},
		{PackageRequirement{Project: "nodejs.org", Constraint: WildcardConstraint}, "nodejs.org"},
		{PackageRequirement{Project: "nodejs.org"}, "nodejs.org"},
		{PackageRequirement{Project: "astral.sh/uv", Constraint: ">=0.4"}, "astral.sh/uv@>=0.4"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.req.Spec())
	}
}

func TestManifestSignalEmpty(t *testing.T) {
	assert.True(t, ManifestSignal{}.Empty())
	assert.False(t, ManifestSignal{Pkgs: []PackageRequirement{{Project: "go.dev"}}}.Empty())
	assert.False(t, ManifestSignal{Env: map[string]string{"A": "b"}}.Empty())
}

func TestSortRequirements(t *testing.T) {
	reqs := []PackageRequirement{
		{Project: "python.org"},
		{Project: "go.dev"},
		{Project: "nodejs.org"},
	}
	SortRequirements(reqs)

	assert.Equal(t, "go.dev", reqs[0].Project)
	assert.Equal(t, "nodejs.org", reqs[1].Project)
	assert.Equal(t, "python.org", reqs[2].Project)
}
