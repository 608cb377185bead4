package ciutil

import (
	"testing"

	"github.com/phrazzld/item-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
)

// clearCIEnv blanks every CI marker so tests see a local environment.
func clearCIEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{EnvCI, EnvGitHubActions, EnvGitHubWorkspace, EnvGitLabCI, EnvGitLabProjectDir, EnvJenkinsURL, EnvCircleCI} {
		t.Setenv(v, "")
	}
}

func TestIsCI(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want bool
	}{
		{name: "local", want: false},
		{name: "generic CI", env: map[string]string{EnvCI: "true"}, want: true},
		{name: "github", env: map[string]string{EnvGitHubActions: "true"}, want: true},
		{name: "gitlab", env: map[string]string{EnvGitLabCI: "true"}, want: true},
		{name: "circle", env: map[string]string{EnvCircleCI: "true"}, want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearCIEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			assert.Equal(t, tc.want, IsCI())
		})
	}
}

func TestProviderDetection(t *testing.T) {
	clearCIEnv(t)
	t.Setenv(EnvGitHubActions, "true")
	assert.False(t, IsGitHubActions(), "workspace is also required")
	t.Setenv(EnvGitHubWorkspace, "/work")
	assert.True(t, IsGitHubActions())

	t.Setenv(EnvGitLabCI, "true")
	t.Setenv(EnvGitLabProjectDir, "/builds/x")
	assert.True(t, IsGitLabCI())
}

func TestGetEnvWithFallbacks(t *testing.T) {
	t.Setenv("ITEMS_A", "")
	t.Setenv("ITEMS_B", "postgres://user:secret@db:5432/items")

	log, buf := logger.GetTestLogger(t)
	got := GetEnvWithFallbacks([]string{"ITEMS_A", "ITEMS_B"}, "default", log)

	assert.Equal(t, "postgres://user:secret@db:5432/items", got)
	logger.AssertLogContains(t, buf, "using fallback environment variable")
	assert.NotContains(t, buf.String(), "secret")

	assert.Equal(t, "default", GetEnvWithFallbacks([]string{"ITEMS_A"}, "default", nil))
}

func TestGetTestDatabaseURL(t *testing.T) {
	t.Setenv(EnvItemsTestDBURL, "")
	t.Setenv(EnvDatabaseURL, "")
	t.Setenv(EnvItemsDatabaseURL, "")
	assert.Empty(t, GetTestDatabaseURL(nil))

	t.Setenv(EnvDatabaseURL, "postgres://b")
	assert.Equal(t, "postgres://b", GetTestDatabaseURL(nil))

	t.Setenv(EnvItemsTestDBURL, "postgres://a")
	assert.Equal(t, "postgres://a", GetTestDatabaseURL(nil), "preferred variable wins")
}

func TestHealthCheckConfigForEnvironment(t *testing.T) {
	clearCIEnv(t)
	assert.Equal(t, DefaultHealthCheckConfig(), HealthCheckConfigForEnvironment())

	t.Setenv(EnvCI, "true")
	assert.Equal(t, CIHealthCheckConfig(), HealthCheckConfigForEnvironment())
}
