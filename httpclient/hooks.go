package httpclient

import (
	"fmt"

	"github.com/kbukum/netkit/logger"
)

// HookFunc observes a terminal outcome with the status code and body text.
type HookFunc func(status int, body string)

// Hooks groups the success and error observers of a call or a client.
type Hooks struct {
	OnSuccess HookFunc
	OnError   HookFunc
}

// dispatcher runs hooks in registration order, global before per-call,
// isolating each one so a panicking observer cannot change the call's outcome.
type dispatcher struct {
	global Hooks
	log    *logger.Logger
}

func (d *dispatcher) success(call Hooks, status int, body string) {
	d.run("global.success", d.global.OnSuccess, status, body)
	d.run("call.success", call.OnSuccess, status, body)
}

func (d *dispatcher) failure(call Hooks, status int, body string) {
	d.run("global.error", d.global.OnError, status, body)
	d.run("call.error", call.OnError, status, body)
}

func (d *dispatcher) run(name string, fn HookFunc, status int, body string) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("hook panicked", logger.Fields(
				logger.FieldHook, name,
				logger.FieldStatus, status,
				logger.FieldError, fmt.Sprint(r),
			))
		}
	}()
	fn(status, body)
}
