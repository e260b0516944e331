package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopesSufficient(t *testing.T) {
	t.Parallel()

	required := []string{"public_repo", "user:email"}
	equivalents := map[string]string{
		"public_repo": "repo",
		"user:email":  "user",
	}

	cases := []struct {
		name    string
		granted []string
		want    bool
	}{
		{"exact match", []string{"public_repo", "user:email"}, true},
		{"superset", []string{"public_repo", "user:email", "gist"}, true},
		{"wider scopes subsume", []string{"repo", "user"}, true},
		{"mixed exact and wider", []string{"repo", "user:email"}, true},
		{"proper subset", []string{"public_repo"}, false},
		{"only one wider scope", []string{"user"}, false},
		{"empty grant", nil, false},
		{"unrelated scopes", []string{"gist", "notifications"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ScopesSufficient(tc.granted, required, equivalents))
		})
	}
}

func TestScopesSufficientNoRequirements(t *testing.T) {
	t.Parallel()

	assert.True(t, ScopesSufficient(nil, nil, nil))
	assert.True(t, ScopesSufficient([]string{"anything"}, nil, nil))
}

func TestScopesSufficientWithoutEquivalents(t *testing.T) {
	t.Parallel()

	// Without the equivalents map, only literal membership counts.
	assert.False(t, ScopesSufficient([]string{"repo"}, []string{"public_repo"}, nil))
	assert.True(t, ScopesSufficient([]string{"public_repo"}, []string{"public_repo"}, nil))
}
