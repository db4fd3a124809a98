package github

import (
	"errors"
	"os"

	"github.com/cli/go-gh/v2/pkg/auth"
)

// TokenSource indicates where the token was found
type TokenSource string

const (
	TokenSourceFlag      TokenSource = "flag"
	TokenSourceEnvGitHub TokenSource = "GITHUB_TOKEN"
	TokenSourceEnvGH     TokenSource = "GH_TOKEN"
	TokenSourceGHCLI     TokenSource = "gh-cli"
	TokenSourceNone      TokenSource = "none"
)

// ErrTokenNotFound is returned when no GitHub token is available.
var ErrTokenNotFound = errors.New(`GitHub token required

Provide a token via one of:
  * gh auth login             (auto-detected from gh CLI)
  * GITHUB_TOKEN env var
  * --token flag

Create a token at: https://github.com/settings/tokens`)

// tokenForHost is replaced in tests.
var tokenForHost = auth.TokenForHost

// ResolveToken attempts to find a GitHub token from multiple sources.
// Priority order:
//  1. flagToken (explicit --token flag)
//  2. GITHUB_TOKEN environment variable
//  3. GH_TOKEN environment variable
//  4. gh CLI auth (keyring + config file)
func ResolveToken(flagToken string) (string, TokenSource, error) {
	if flagToken != "" {
		return flagToken, TokenSourceFlag, nil
	}

	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, TokenSourceEnvGitHub, nil
	}

	if token := os.Getenv("GH_TOKEN"); token != "" {
		return token, TokenSourceEnvGH, nil
	}

	if token, _ := tokenForHost("github.com"); token != "" {
		return token, TokenSourceGHCLI, nil
	}

	return "", TokenSourceNone, ErrTokenNotFound
}
