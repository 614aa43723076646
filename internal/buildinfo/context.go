// Package buildinfo carries build-time metadata, injected with -ldflags and
// kept out of the user configuration.
package buildinfo

import "fmt"

// UnknownValue is reported for metadata the build did not set.
const UnknownValue = "unknown"

// Context holds the build metadata of the running binary.
type Context struct {
	// Version is the git tag of the build
	Version string
	// BuildDate is when the binary was built
	BuildDate string
}

// NewContext creates a build context.
func NewContext(version, buildDate string) *Context {
	return &Context{Version: version, BuildDate: buildDate}
}

// GetVersion returns the version, or UnknownValue.
func (c *Context) GetVersion() string {
	if c == nil || c.Version == "" {
		return UnknownValue
	}
	return c.Version
}

// GetBuildDate returns the build date, or UnknownValue.
func (c *Context) GetBuildDate() string {
	if c == nil || c.BuildDate == "" {
		return UnknownValue
	}
	return c.BuildDate
}

// String formats the metadata for the version command.
func (c *Context) String() string {
	return fmt.Sprintf("%s (built %s)", c.GetVersion(), c.GetBuildDate())
}
