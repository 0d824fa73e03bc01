package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"rubconverter/internal/api"
	"rubconverter/internal/api/middleware"
	"rubconverter/internal/service"
)

func (app *App) initHTTP(svc service.ConversionServiceInterface) {
	r := chi.NewRouter()
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RequestLoggingMiddleware(app.logger))
	r.Use(chimiddleware.Recoverer)

	r.Post("/convert", api.HandleConvert(svc))
	r.Post("/conversions", api.HandleRequestConversion(svc))
	r.Get("/conversions/{conversion_id}", api.HandleGetConversion(svc))
	r.Get("/rates", api.HandleGetRates(svc))
	r.Get("/rates/archive", api.HandleGetRateArchive(svc))
	r.Get("/rates/archive/latest", api.HandleGetLatestArchived(svc))
	r.Get("/history", api.HandleGetHistory(svc))
	r.Delete("/history", api.HandleClearHistory(svc))
	r.Get("/healthz", api.HandleHealthz())
	r.Get("/readyz", api.HandleReadyz(app.db, app.rdbCache, app.rdbAsynq))

	if app.cfg.Server.ServeSwagger {
		r.Get("/swagger/*", api.SwaggerUIHandler())
		r.Get("/openapi.json", api.OpenAPISpecHandler())
	}

	if app.monitor != nil {
		r.Handle(app.monitor.RootPath()+"/*", app.monitor)
	}

	app.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
