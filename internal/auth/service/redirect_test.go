package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAllowedHosts = []string{"good.example", "app.craft-ci.test"}

func TestValidateRedirectTargetAccepts(t *testing.T) {
	t.Parallel()

	cases := []string{
		"https://good.example/?x=1",
		"https://good.example/path/deep?a=b&c=d",
		"https://GOOD.EXAMPLE/mixed-case-host",
		"https://app.craft-ci.test/",
	}

	for _, target := range cases {
		t.Run(target, func(t *testing.T) {
			t.Parallel()
			got, err := ValidateRedirectTarget(target, testAllowedHosts)
			require.NoError(t, err)
			assert.Equal(t, target, got)
		})
	}
}

func TestValidateRedirectTargetRejects(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"script tag":                          "https://good.example/<script>alert(1)</script>",
		"mixed case script":                   "https://good.example/<sCrIpt",
		"encoded bracket":                     "https://good.example/%3Cscript",
		"double encoded":                      "https://good.example/%253Cscript",
		"onerror attribute":                   "https://good.example/<img src=x onerror=alert(1)>",
		"encoded onerror":                     "https://good.example/x%20onerror%3Dalert(1)",
		"stray percent hiding encoded script": "https://good.example/?x=%3Cscript%20src%3Dx%3E%",
		"malformed escape in query":           "https://good.example/?p=100%zz",
		"trailing lone percent":               "https://good.example/?discount=50%",
		"host not allowed":                    "https://evil.example/",
		"subdomain of allowed":                "https://sub.good.example/",
		"prefix of allowed":                   "https://good.example.evil.example/",
		"http scheme":                         "http://good.example/",
		"javascript scheme":                   "javascript:alert(1)",
		"no host":                             "https:///path",
		"relative path":                       "/relative/path",
	}

	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := ValidateRedirectTarget(target, testAllowedHosts)
			assert.ErrorIs(t, err, ErrTargetNotAllowed)
		})
	}
}

func TestValidateRedirectTargetEmptyIsNoop(t *testing.T) {
	t.Parallel()

	got, err := ValidateRedirectTarget("", testAllowedHosts)
	require.NoError(t, err)
	assert.Empty(t, got)
}
