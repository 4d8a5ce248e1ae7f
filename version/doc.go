// Package version reports the structrest build version.
//
// The version is read from the binary's build info. It can be pinned at
// compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/structrest/version.Version=v1.0.0"
package version
