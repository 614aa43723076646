package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContext_Version(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ctx  *Context
		want string
	}{
		{name: "nil context", ctx: nil, want: UnknownValue},
		{name: "empty version", ctx: NewContext("", "2026-01-01"), want: UnknownValue},
		{name: "valid version", ctx: NewContext("1.2.0", "2026-01-01"), want: "1.2.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.ctx.GetVersion())
		})
	}
}

func TestContext_BuildDate(t *testing.T) {
	t.Parallel()

	var nilCtx *Context
	assert.Equal(t, UnknownValue, nilCtx.GetBuildDate())
	assert.Equal(t, UnknownValue, NewContext("1.0.0", "").GetBuildDate())
	assert.Equal(t, "2026-01-01", NewContext("1.0.0", "2026-01-01").GetBuildDate())
}

func TestContext_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1.2.0 (built 2026-01-01)", NewContext("1.2.0", "2026-01-01").String())
	assert.Equal(t, "unknown (built unknown)", NewContext("", "").String())
}
