// Package version reports the build of the netkit binaries. It feeds the
// default client User-Agent, the /version and /healthz endpoints and the
// -version flag.
//
//	go build -ldflags "-X github.com/kbukum/netkit/version.Version=1.0.0 \
//	    -X github.com/kbukum/netkit/version.Commit=$(git rev-parse --short HEAD)"
package version
