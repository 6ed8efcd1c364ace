package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInfoString(t *testing.T) {
	tests := []struct {
		name     string
		bi       *debug.BuildInfo
		expected string
	}{
		{
			name:     "no vcs info returns dev",
			bi:       &debug.BuildInfo{},
			expected: "dev",
		},
		{
			name:     "devel main version is dev",
			bi:       &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			expected: "dev",
		},
		{
			name:     "tagged release",
			bi:       &debug.BuildInfo{Main: debug.Module{Version: "v0.3.1"}},
			expected: "v0.3.1",
		},
		{
			name: "tag wins over revision",
			bi: &debug.BuildInfo{
				Main:     debug.Module{Version: "v0.3.1"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123def456789"}},
			},
			expected: "v0.3.1",
		},
		{
			name: "long revision is shortened",
			bi: &debug.BuildInfo{
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123def456789"}},
			},
			expected: "dev-abc123def456",
		},
		{
			name: "short revision kept",
			bi: &debug.BuildInfo{
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
			},
			expected: "dev-abc123",
		},
		{
			name: "dirty build",
			bi: &debug.BuildInfo{
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abc123def456789"},
					{Key: "vcs.modified", Value: "true"},
				},
			},
			expected: "dev-abc123def456-dirty",
		},
		{
			name: "clean build",
			bi: &debug.BuildInfo{
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abc123def456789"},
					{Key: "vcs.modified", Value: "false"},
				},
			},
			expected: "dev-abc123def456",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, fromBuildInfo(tt.bi).String())
		})
	}
}

func TestFromBuildInfoGoVersion(t *testing.T) {
	info := fromBuildInfo(&debug.BuildInfo{GoVersion: "go1.25.8"})
	require.Equal(t, "go1.25.8", info.GoVersion)
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent()
	require.True(t, strings.HasPrefix(ua, "leadgenius/"), ua)
	require.NotEqual(t, "leadgenius/", ua)
}
