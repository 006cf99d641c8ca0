package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version of the oilrisk binary
	Version = "1.0.0"

	// DataFormatVersion tags the risk_index / risk_factor / alert row layout
	DataFormatVersion = "v1"

	// APIVersion of the /api routes
	APIVersion = "v1"
)

// Set with -ldflags "-X oilrisk/pkg/contracts.BuildTime=... -X oilrisk/pkg/contracts.GitCommit=..."
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// VersionInfo describes the running build
type VersionInfo struct {
	Version    string `json:"version"`
	DataFormat string `json:"data_format"`
	APIVersion string `json:"api_version"`
	BuildTime  string `json:"build_time"`
	GitCommit  string `json:"git_commit"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// GetVersionInfo returns the version of this build
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:    Version,
		DataFormat: DataFormatVersion,
		APIVersion: APIVersion,
		BuildTime:  BuildTime,
		GitCommit:  GitCommit,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// GetFullVersionString formats the version for humans
func GetFullVersionString() string {
	info := GetVersionInfo()
	return fmt.Sprintf("oilrisk v%s (built: %s, commit: %s, %s, %s)",
		info.Version, info.BuildTime, info.GitCommit, info.GoVersion, info.Platform)
}
