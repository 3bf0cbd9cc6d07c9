package mplcore

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

type HookableLifecycleEvent uint8

const (
	LifecycleCreate HookableLifecycleEvent = iota
	LifecycleTransfer
	LifecycleBurn
	LifecycleUpdate
)

func (e HookableLifecycleEvent) String() string {
	switch e {
	case LifecycleCreate:
		return "create"
	case LifecycleTransfer:
		return "transfer"
	case LifecycleBurn:
		return "burn"
	case LifecycleUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// External check result flags.
const (
	CheckCanListen  uint32 = 1
	CheckCanApprove uint32 = 2
	CheckCanReject  uint32 = 4
)

type ExternalCheckResult struct {
	Flags uint32
}

func (r ExternalCheckResult) CanReject() bool  { return r.Flags&CheckCanReject != 0 }
func (r ExternalCheckResult) CanApprove() bool { return r.Flags&CheckCanApprove != 0 }

type LifecycleCheck struct {
	Event  HookableLifecycleEvent
	Result ExternalCheckResult
}

// OracleAdapter describes an Oracle external plugin adapter attached to a collection.
type OracleAdapter struct {
	BaseAddress     solana.PublicKey
	LifecycleChecks []LifecycleCheck
}

// Check returns the configured check for the event.
func (o OracleAdapter) Check(event HookableLifecycleEvent) (ExternalCheckResult, bool) {
	for _, c := range o.LifecycleChecks {
		if c.Event == event {
			return c.Result, true
		}
	}
	return ExternalCheckResult{}, false
}

// Labels renders the adapter as "oracle:<base>:<event>:<flags>" strings, one per check.
func (o OracleAdapter) Labels() []string {
	labels := make([]string, 0, len(o.LifecycleChecks))
	for _, c := range o.LifecycleChecks {
		labels = append(labels, fmt.Sprintf("oracle:%s:%s:%d", o.BaseAddress, c.Event, c.Result.Flags))
	}
	return labels
}

// TransferRejectOracle is the adapter the program installs on every collection it creates.
func TransferRejectOracle(base solana.PublicKey) OracleAdapter {
	return OracleAdapter{
		BaseAddress: base,
		LifecycleChecks: []LifecycleCheck{
			{Event: LifecycleTransfer, Result: ExternalCheckResult{Flags: CheckCanReject}},
		},
	}
}
