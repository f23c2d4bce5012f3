package version

// Set at build time via -ldflags.
var (
	AppName = "BT-NESTLE"
	Version = "dev"
)
