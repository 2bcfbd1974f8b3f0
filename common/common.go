// Package common holds shared constants for the captive-portal gateway.
package common

// PackageName identifies this service in logs and metrics.
const PackageName = "captive-portal"

// Version is overridden at build time via -ldflags.
var Version = "dev"
