package handler

import (
	"fieldbook/config"
	"fieldbook/di"
	"fieldbook/shared/logger"
	"fieldbook/shared/timezone"
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"
)

var (
	once    sync.Once
	handler http.Handler
)

// Handler is the serverless entry point. The dependency graph is built once per instance.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		logger.InitLogger()

		cfg := config.Get()
		logger.Configure(cfg)

		if err := timezone.Load(cfg.App.Timezone); err != nil {
			log.Error().Err(err).Msg("Falling back to UTC")
		}

		// Serverless instances are frozen rather than signalled, so there is no shutdown to hook.
		server, _ := di.InitializeService()
		handler = server.Handler()
	})

	r.RequestURI = r.URL.String()

	handler.ServeHTTP(w, r)
}
