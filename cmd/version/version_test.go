package version

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrferreira/mrferreira-web/internal/buildinfo"
)

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	cmd := Command(buildinfo.NewContext("v1.2.0", "2026-10-01"))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "mrferreira v1.2.0 (built 2026-10-01)\n", out.String())
}
