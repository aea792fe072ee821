package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"editledger/internal/modkit"
	"editledger/internal/modkit/module"
	"editledger/internal/modkit/repokit"
	"editledger/internal/platform/config"
	"editledger/internal/platform/logger"
	"editledger/internal/platform/store"

	"editledger/internal/services/api"
)

func mustSetEnv(key, val string) {
	if val != "" {
		_ = os.Setenv(key, val)
	}
}

func main() {
	root := config.New()
	dbCfg := root.Prefix("SERVICE_PGSQL_")

	l := logger.Get()

	st, err := store.Open(context.Background(), store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         dbCfg.MustString("DBURL"),
			MaxConns:    int32(dbCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: dbCfg.MayInt("SLOW_MS", 500),
			LogSQL:      dbCfg.MayBool("LOG_SQL", false),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(context.Background(), st)

	var (
		fConc   = flag.Int("concurrency", 4, "worker concurrency")
		fBatch  = flag.Int("batch", 16, "DB lease batch size per poll")
		fRetry  = flag.Int("retry_base_ms", 500, "base backoff (ms) for transient failures")
		fMaxAtt = flag.Int("max_attempts", 8, "max attempts before a job is dropped")
	)
	flag.Parse()

	// export as env so the module can also read them via FromConfig
	mustSetEnv("JOBS_CONCURRENCY", fmt.Sprintf("%d", *fConc))
	mustSetEnv("JOBS_TAKE_BATCH", fmt.Sprintf("%d", *fBatch))
	mustSetEnv("JOBS_RETRY_BASE_MS", fmt.Sprintf("%d", *fRetry))
	mustSetEnv("JOBS_MAX_ATTEMPTS", fmt.Sprintf("%d", *fMaxAtt))

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		Log: *l,
	}

	// same assembly as the API process; the worker only drives the queue
	wired := api.Wire(deps)
	for _, m := range []module.Module{wired.Events, wired.Contributions, wired.Jobs} {
		module.Register(m.Name(), m.Ports())
	}

	if err := wired.Jobs.Service().Run(context.Background()); err != nil {
		l.Fatal().Err(err).Msg("jobs worker failed")
	}
}
