// Package registry holds the static golden-path requirement table and the
// dispatch table mapping (service, check name) to check functions. Dangling
// references between the two are a configuration bug and fail loudly at
// construction, not silently at validation time.
package registry

import (
	"context"
	"fmt"

	"github.com/goldenpath-systems/goldenpath/internal/probe"
	"github.com/goldenpath-systems/goldenpath/pkg/types"
)

// CheckFunc performs one validation check against the host. The requirement
// being evaluated is passed through so shared checks (e.g. generic remote
// availability) know which service they are probing.
type CheckFunc func(ctx context.Context, host *probe.Host, req types.Requirement) types.CheckResult

// CheckSet maps service types to their named check functions.
type CheckSet map[types.ServiceType]map[string]CheckFunc

// Registry pairs the ordered requirement list with its check dispatch table.
// Immutable after construction.
type Registry struct {
	requirements []types.Requirement
	checks       CheckSet
}

// New validates the requirement table against the check set and builds the
// registry. Duplicate requirement names and requirements whose check key has
// no registered function are programmer errors and fail fast.
func New(requirements []types.Requirement, checks CheckSet) (*Registry, error) {
	seen := make(map[string]struct{}, len(requirements))
	for _, req := range requirements {
		if req.Name == "" {
			return nil, fmt.Errorf("requirement for %s has an empty name", req.ServiceType)
		}
		if _, dup := seen[req.Name]; dup {
			return nil, fmt.Errorf("duplicate requirement name %q", req.Name)
		}
		seen[req.Name] = struct{}{}

		svcChecks, ok := checks[req.ServiceType]
		if !ok {
			return nil, fmt.Errorf("requirement %q references service %s with no registered checks",
				req.Name, req.ServiceType)
		}
		if _, ok := svcChecks[req.Check]; !ok {
			return nil, fmt.Errorf("requirement %q references unregistered check %s/%s",
				req.Name, req.ServiceType, req.Check)
		}
	}
	return &Registry{requirements: requirements, checks: checks}, nil
}

// Requirements returns the full requirement list in declaration order.
func (r *Registry) Requirements() []types.Requirement {
	return r.requirements
}

// ForServices returns the requirements whose service type is in the given
// set, preserving declaration order. Pure filter: deterministic, idempotent,
// no side effects.
func (r *Registry) ForServices(services []types.ServiceType) []types.Requirement {
	want := make(map[types.ServiceType]struct{}, len(services))
	for _, s := range services {
		want[s] = struct{}{}
	}
	var out []types.Requirement
	for _, req := range r.requirements {
		if _, ok := want[req.ServiceType]; ok {
			out = append(out, req)
		}
	}
	return out
}

// ServiceImplemented reports whether any checks are registered for the
// service type at all.
func (r *Registry) ServiceImplemented(service types.ServiceType) bool {
	_, ok := r.checks[service]
	return ok
}

// Lookup resolves a check function by service type and check name.
func (r *Registry) Lookup(service types.ServiceType, check string) (CheckFunc, bool) {
	svcChecks, ok := r.checks[service]
	if !ok {
		return nil, false
	}
	fn, ok := svcChecks[check]
	return fn, ok
}

// Dispatch resolves and runs the check for a requirement. A requirement that
// references an unregistered service or check name yields a failed result
// with a sentinel message, never a silent skip. New keeps these branches out
// of normal operation; they guard requirements injected past the constructor.
func (r *Registry) Dispatch(ctx context.Context, host *probe.Host, req types.Requirement) types.CheckResult {
	if !r.ServiceImplemented(req.ServiceType) {
		return types.CheckResult{
			Success: false,
			Message: fmt.Sprintf("No validation implemented for %s", req.ServiceType),
		}
	}
	fn, ok := r.Lookup(req.ServiceType, req.Check)
	if !ok {
		return types.CheckResult{
			Success: false,
			Message: fmt.Sprintf("Unknown %s validation: %s", req.ServiceType, req.Check),
		}
	}
	return fn(ctx, host, req)
}
