package config

import "strings"

// AppVersion is the version of the application, injected at build time.
var AppVersion string

// AppName is the name of the application.
const AppName = "Visum"

// LogWinSubDir is the sub directory for the log files on windows.
var LogWinSubDir = AppName

// LogSubDir is the sub directory for the log files.
var LogSubDir = "." + strings.ToLower(AppName)

// LogExt is the extension for the log files.
var LogExt = ".log"

// Defaults used when no config file exists yet.
const (
	// DefaultEndpoint is the background normalization service endpoint.
	DefaultEndpoint = "https://api.visum.app/v1/normalize"

	// DefaultBackgroundColor is the passport-standard background.
	DefaultBackgroundColor = "#FFFFFF"

	// DefaultQuality is the lossy encode quality for intermediate crop payloads.
	DefaultQuality = 0.9
)
