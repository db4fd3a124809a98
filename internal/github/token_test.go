package github

import (
	"errors"
	"testing"
)

func stubGHCLI(t *testing.T, token string) {
	t.Helper()

	orig := tokenForHost
	tokenForHost = func(string) (string, string) { return token, "stub" }

	t.Cleanup(func() { tokenForHost = orig })
}

func TestResolveToken_FlagPriority(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "env-token")

	token, source, err := ResolveToken("test-flag-token")
	if err != nil {
		t.Fatalf("ResolveToken() error = %v", err)
	}

	if token != "test-flag-token" {
		t.Errorf("token = %q, want %q", token, "test-flag-token")
	}

	if source != TokenSourceFlag {
		t.Errorf("source = %v, want %v", source, TokenSourceFlag)
	}
}

func TestResolveToken_EnvOrder(t *testing.T) {
	tests := []struct {
		name       string
		github     string
		gh         string
		cli        string
		wantToken  string
		wantSource TokenSource
	}{
		{"GITHUB_TOKEN first", "a", "b", "c", "a", TokenSourceEnvGitHub},
		{"GH_TOKEN second", "", "b", "c", "b", TokenSourceEnvGH},
		{"gh cli last", "", "", "c", "c", TokenSourceGHCLI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GITHUB_TOKEN", tt.github)
			t.Setenv("GH_TOKEN", tt.gh)
			stubGHCLI(t, tt.cli)

			token, source, err := ResolveToken("")
			if err != nil {
				t.Fatalf("ResolveToken() error = %v", err)
			}

			if token != tt.wantToken || source != tt.wantSource {
				t.Errorf("got (%q, %v), want (%q, %v)", token, source, tt.wantToken, tt.wantSource)
			}
		})
	}
}

func TestResolveToken_NoToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GH_TOKEN", "")
	stubGHCLI(t, "")

	_, source, err := ResolveToken("")
	if !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("error = %v, want ErrTokenNotFound", err)
	}

	if source != TokenSourceNone {
		t.Errorf("source = %v, want %v", source, TokenSourceNone)
	}
}
