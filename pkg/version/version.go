package version

// Version is reported by `catalog --version` and set at build time:
// go build -ldflags "-X github.com/shishobooks/catalog/pkg/version.Version=1.0.0" ./cmd/catalog
var Version = "dev"
