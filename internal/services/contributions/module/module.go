// Package module wires the contributions service into HTTP via modkit
package module

import (
	stdhttp "net/http"

	"editledger/internal/modkit"
	"editledger/internal/modkit/httpkit"
	"editledger/internal/modkit/repokit"
	"editledger/internal/platform/strings"
	"editledger/internal/services/contributions/domain"
	contribhttp "editledger/internal/services/contributions/http"
	"editledger/internal/services/contributions/repo"
	"editledger/internal/services/contributions/service"
)

// Ports exposes the contribution surface for cross-module lookups
type Ports struct {
	Validator    domain.ValidatorPort
	Compute      domain.ComputePort
	Writer       domain.WriterPort
	Query        domain.QueryPort
	Housekeeping domain.HousekeepingPort
}

// Module implements the contributions module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws      []func(stdhttp.Handler) stdhttp.Handler
	ports    Ports
	register func(httpkit.Router)

	svc *service.Svc
}

// New constructs the contributions module. Collaborator ports come in
// through modkit.WithPorts as a service.Deps
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("contributions"), modkit.WithPrefix("/contributions")}, opts...)...)

	svcDeps, ok := b.Ports.(service.Deps)
	if !ok {
		panic("contributions module requires service.Deps via modkit.WithPorts")
	}
	svc := service.New(repokit.TxRunner(deps.PG), repo.NewPG(), svcDeps, FromConfig(deps.Cfg))

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		svc:    svc,
	}
	m.ports = Ports{
		Validator:    svc,
		Compute:      svc,
		Writer:       svc,
		Query:        svc,
		Housekeeping: svc.Housekeeping(),
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		contribhttp.Register(r, m.svc)
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

// Service exposes the concrete service for in-process wiring
func (m *Module) Service() *service.Svc { return m.svc }
