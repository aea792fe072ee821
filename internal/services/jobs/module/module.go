// Package module wires the job queue into HTTP via modkit
package module

import (
	stdhttp "net/http"

	"editledger/internal/modkit"
	"editledger/internal/modkit/httpkit"
	"editledger/internal/modkit/repokit"
	"editledger/internal/platform/strings"
	"editledger/internal/services/jobs/domain"
	jobshttp "editledger/internal/services/jobs/http"
	"editledger/internal/services/jobs/service"
)

// Ports exposes the enqueue surface for cross-module lookups
type Ports struct {
	Enqueue domain.EnqueuePort
}

// Module implements the jobs module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws      []func(stdhttp.Handler) stdhttp.Handler
	ports    Ports
	register func(httpkit.Router)

	svc *service.Svc
}

// New constructs the jobs module. Worker dispatcher ports come in through
// modkit.WithPorts as a service.Deps; an API-only process passes none
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("jobs"), modkit.WithPrefix("/hooks")}, opts...)...)

	svcDeps, _ := b.Ports.(service.Deps)
	svc := service.New(repokit.TxRunner(deps.PG), svcDeps, FromConfig(deps.Cfg))

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		svc:    svc,
	}
	m.ports = Ports{Enqueue: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		jobshttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

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

// Service exposes the concrete service for the worker process
func (m *Module) Service() *service.Svc { return m.svc }
