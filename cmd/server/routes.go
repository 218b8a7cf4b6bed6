package main

import (
	"net/http"

	"github.com/JaimeStill/file-lab/pkg/middleware"
	"github.com/JaimeStill/file-lab/web/app"
)

func (app *Application) routes() (http.Handler, error) {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	handler, err := app.uploadPipeline()
	if err != nil {
		return nil, err
	}
	handler.Register(mux)

	mux.Handle("/", webapp.Handler())

	return middleware.TrimSlash()(app.recoverPanic(app.enableCORS(mux))), nil
}
