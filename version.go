package timethings

import _ "embed"

// Version is the release version of timethings.
//
//go:embed VERSION
var Version string
