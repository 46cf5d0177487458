package config

// Tree defaults.
const (
	DefaultTreeMaxDepth = 1000
)

// Logging defaults.
const (
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = FormatText
)

// Output defaults.
const (
	DefaultOutputFormat = FormatText
	DefaultOutputColor  = false
)

// Render defaults.
const (
	DefaultRenderTitle = "binarytree"
)

// Bench defaults.
const (
	DefaultBenchItems = 10000
	DefaultBenchSeed  = 1
)
