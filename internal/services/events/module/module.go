// Package module wires the events service into HTTP via modkit
package module

import (
	stdhttp "net/http"

	"editledger/internal/modkit"
	"editledger/internal/modkit/httpkit"
	"editledger/internal/modkit/repokit"
	"editledger/internal/platform/strings"
	"editledger/internal/services/events/domain"
	eventshttp "editledger/internal/services/events/http"
	"editledger/internal/services/events/repo"
	"editledger/internal/services/events/service"
)

// Ports exposes the event surface for cross-module lookups
type Ports struct {
	Events domain.Ports
}

// Module implements the events module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws      []func(stdhttp.Handler) stdhttp.Handler
	ports    Ports
	contribs eventshttp.ContribPorts
	register func(httpkit.Router)

	svc *service.Svc
}

// New constructs the events module. The contribution ports its routes drive
// come in through modkit.WithPorts
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("events"), modkit.WithPrefix("/events")}, opts...)...)

	svc := service.New(repokit.TxRunner(deps.PG), repo.NewPG())

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		svc:    svc,
	}
	m.ports = Ports{Events: svc}

	m.contribs, _ = b.Ports.(eventshttp.ContribPorts)
	external := b.Register
	// m.contribs is read at mount time so it can be wired after construction
	m.register = func(r httpkit.Router) {
		eventshttp.Register(r, m.svc, m.contribs)
		if external != nil {
			external(r)
		}
	}
	return m
}

// WireContributions injects the contribution ports the event routes drive.
// The contributions service itself depends on this module's service, so the
// ports can only exist after both modules are constructed
func (m *Module) WireContributions(p eventshttp.ContribPorts) { m.contribs = p }

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name is the module name
func (m *Module) Name() string { return strings.MustString(m.name, "module name") }

// Prefix is the module route prefix
func (m *Module) Prefix() string { return strings.MustPrefix(m.prefix) }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Service exposes the concrete service for in-process wiring
func (m *Module) Service() *service.Svc { return m.svc }
