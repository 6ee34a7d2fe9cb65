// Package version reports the build identity of the compapol binary.
//
// Values are stamped at link time:
//
//	go build -ldflags "-X github.com/kbukum/compapol/version.Version=1.4.0 \
//	  -X github.com/kbukum/compapol/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Anything left unset is filled from the module build info when available.
package version
