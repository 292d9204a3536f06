package marl

import (
	_ "embed"
)

// Version exposes the version of the library, embedded from the VERSION file.
//
//go:embed VERSION
var Version string
