// salvo-target is a demo origin for trying out salvo locally. Its routes
// cover the caching behaviors the engine understands: max-age, Expires,
// validators with 304 revalidation, and the uncacheable variants.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

func main() {
	port := flag.String("p", "9000", "Port to listen on")
	flag.Parse()

	started := time.Now().UTC().Format(http.TimeFormat)

	r := chi.NewRouter()
	r.Get("/fresh", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Cache-Control", "max-age=60")
		fmt.Fprintln(w, "cacheable for a minute")
	})
	r.Get("/expires", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Expires", time.Now().Add(10*time.Minute).UTC().Format(http.TimeFormat))
		fmt.Fprintln(w, "cacheable via Expires")
	})
	r.Get("/etag", func(w http.ResponseWriter, req *http.Request) {
		const etag = `"v1"`
		w.Header().Set("ETag", etag)
		if req.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		fmt.Fprintln(w, "validate me with If-None-Match")
	})
	r.Get("/modified", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Last-Modified", started)
		if req.Header.Get("If-Modified-Since") == started {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		fmt.Fprintln(w, "validate me with If-Modified-Since")
	})
	r.Get("/no-store", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		fmt.Fprintln(w, "never cached")
	})
	r.Get("/pragma", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Cache-Control", "max-age=60")
		fmt.Fprintln(w, "Pragma wins, never cached")
	})

	log.Info().Str("port", *port).Msg("Demo target listening")
	if err := http.ListenAndServe(":"+*port, r); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
