package refname

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		invalid bool
	}{
		{name: "simple", ref: "main", invalid: false},
		{name: "dashes", ref: "wuz-new-colors", invalid: false},
		{name: "nested", ref: "feature/login-form", invalid: false},
		{name: "pull request ref", ref: "pr/42", invalid: false},
		{name: "single inner dot", ref: "release-1.2", invalid: false},
		{name: "lock in middle", ref: "my.lockfile", invalid: false},
		{name: "at without brace", ref: "user@host", invalid: false},
		{name: "unicode", ref: "fix-ümlaut", invalid: false},
		{name: "empty", ref: "", invalid: false},

		{name: "space", ref: "bad name", invalid: true},
		{name: "tab", ref: "bad\tname", invalid: true},
		{name: "nul", ref: "bad\x00name", invalid: true},
		{name: "del", ref: "bad\x7fname", invalid: true},
		{name: "tilde", ref: "bad~name", invalid: true},
		{name: "caret", ref: "bad^name", invalid: true},
		{name: "colon", ref: "bad:name", invalid: true},
		{name: "question", ref: "bad?name", invalid: true},
		{name: "star", ref: "bad*name", invalid: true},
		{name: "bracket", ref: "bad[name", invalid: true},
		{name: "backslash", ref: `bad\name`, invalid: true},
		{name: "pipe", ref: "bad|name", invalid: true},
		{name: "quote", ref: `bad"name`, invalid: true},
		{name: "less than", ref: "bad<name", invalid: true},
		{name: "greater than", ref: "bad>name", invalid: true},
		{name: "reflog sequence", ref: "bad@{name", invalid: true},
		{name: "double dot", ref: "bad..name", invalid: true},
		{name: "triple dot", ref: "bad...name", invalid: true},
		{name: "leading dot", ref: ".hidden", invalid: true},
		{name: "trailing dot", ref: "name.", invalid: true},
		{name: "lock suffix", ref: "name.lock", invalid: true},
		{name: "trailing slash", ref: "feature/", invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.invalid, IsInvalid(tt.ref), "IsInvalid(%q)", tt.ref)
		})
	}
}

func TestIsInvalidIsStateless(t *testing.T) {
	// Repeated calls must not depend on earlier matches.
	for i := 0; i < 3; i++ {
		assert.True(t, IsInvalid("bad~name"))
		assert.False(t, IsInvalid("good-name"))
	}
}
