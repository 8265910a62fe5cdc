package observability_test

import (
	"github.com/kbukum/netkit/httpclient"
	"github.com/kbukum/netkit/observability"
)

var (
	_ httpclient.Recorder = (*observability.ClientRecorder)(nil)
	_ httpclient.Recorder = (*observability.PromRecorder)(nil)
)
