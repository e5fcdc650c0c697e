package cmd

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionCommandOutput(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)

	out := buf.String()
	require.Contains(t, out, "tirek server")
	require.Contains(t, out, runtime.Version())
}

func TestResolveVersionPrefersLdflags(t *testing.T) {
	old := Version
	Version = "v1.2.3"
	defer func() { Version = old }()

	require.Equal(t, "v1.2.3", resolveVersion())
}
