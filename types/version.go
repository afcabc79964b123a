package types

// Version is the canonical project version.
// The report header and the CLI both reference this constant.
const Version = "0.3.0"
