package web

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
)

// RunHealthServer answers plain-text readiness probes on its own port so
// process supervisors don't need an API token. Blocks until ctx is
// cancelled; run it in a goroutine.
func RunHealthServer(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("System Ready."))
	})

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background()) //nolint:errcheck
	}()

	log.Info().Str("addr", addr).Msg("health listener up")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		// Log but never Fatal; losing the probe must not kill the bot.
		log.Error().Err(err).Msg("health listener exited")
	}
}
