package handler

import (
	"net/http"
	"sync"

	"unibook/config"
	"unibook/di"
	"unibook/shared/logger"
	"unibook/shared/timezone"
	transport "unibook/transport/http"

	"github.com/rs/zerolog/log"
)

var (
	server   *transport.HTTP
	initOnce sync.Once
)

// Handler is the serverless entrypoint; the dependency graph is built once per instance.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	initOnce.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.SetLogLevel(cfg)

		if err := timezone.Init(cfg.App.Timezone); err != nil {
			log.Error().Err(err).Msg("Falling back to UTC")
		}

		server = di.InitializeService()
	})

	server.ServeHTTP(w, r)
}
