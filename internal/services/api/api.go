// Package api assembles the HTTP API from the service modules
package api

import (
	"time"

	"editledger/internal/platform/config"
	"editledger/internal/platform/logger"
	phttp "editledger/internal/platform/net/http"
	"editledger/internal/platform/net/middleware"
	"editledger/internal/platform/store"

	"editledger/internal/modkit"
	"editledger/internal/modkit/httpkit"
	"editledger/internal/modkit/module"

	"editledger/internal/adapters/mediawiki"
	contribmod "editledger/internal/services/contributions/module"
	contribsvc "editledger/internal/services/contributions/service"
	eventshttp "editledger/internal/services/events/http"
	eventsmod "editledger/internal/services/events/module"
	identrepo "editledger/internal/services/ident/repo"
	identsvc "editledger/internal/services/ident/service"
	jobsmod "editledger/internal/services/jobs/module"
	jobssvc "editledger/internal/services/jobs/service"
)

// Options are the API options
type Options struct {
	Config config.Conf
	Store  *store.Store
	Logger *logger.Logger
}

// Mount mounts the API onto the given router
func Mount(r phttp.Router, opt Options) {
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
	}

	wired := Wire(deps)

	mods := []module.Module{wired.Events, wired.Contributions, wired.Jobs}

	accesslog := middleware.AccessLogZerolog(middleware.AccessLogOptions{
		Slow: opt.Config.Prefix("CORE_API_").MayDuration("SLOW_REQUEST", time.Second),
	})
	auth := httpkit.Auth(identsvc.HeaderAuth{})
	httpkit.MountAPIV1(r, append(httpkit.CommonStack(), accesslog, auth), func(api httpkit.Router) {
		for _, m := range mods {
			module.Register(m.Name(), m.Ports())
		}
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})
}

// Wired holds the constructed modules plus the shared services the worker
// process also needs
type Wired struct {
	Events        *eventsmod.Module
	Contributions *contribmod.Module
	Jobs          *jobsmod.Module
	Ident         *identsvc.Svc
}

// Wire constructs and cross-connects all modules.
// The events service and the contributions service depend on each other
// across the module boundary, so events is built first and its HTTP-side
// contribution ports are wired in last
func Wire(deps modkit.Deps) Wired {
	ident := identsvc.New(deps.PG, identrepo.NewPG())
	wiki := mediawiki.NewClient(mediawiki.OptionsFromConfig(deps.Cfg))

	events := eventsmod.New(deps)
	jobs := jobsmod.New(deps)

	contributions := contribmod.New(deps, modkit.WithPorts(contribsvc.Deps{
		Events:   events.Service(),
		Ident:    ident,
		Revs:     wiki,
		Renderer: wiki,
		Queue:    jobs.Service(),
	}))

	cports := module.MustPortsOf[contribmod.Ports](contributions)
	events.WireContributions(eventshttp.ContribPorts{
		Validator: cports.Validator,
		Query:     cports.Query,
	})
	jobs.Service().WireDispatch(jobssvc.Deps{
		Compute:      cports.Compute,
		Writer:       cports.Writer,
		Housekeeping: cports.Housekeeping,
		Ident:        ident,
	})

	return Wired{
		Events:        events,
		Contributions: contributions,
		Jobs:          jobs,
		Ident:         ident,
	}
}
