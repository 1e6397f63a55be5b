package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) JWTMiddlewareWithRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return app.JWTMiddleware(next, requiredRole)
	}
}

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	adminAuthMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("admin"))
	listMiddleware := standardMiddleware.Append(app.exactPath(propertyList), app.cachePage(app.cfg.Cache.ViewTTL))
	createMiddleware := standardMiddleware.Append(app.exactPath(propertyList), app.JWTMiddlewareWithRole("admin"))

	mux := pat.New()

	// Properties
	mux.Get("/properties/:id", standardMiddleware.ThenFunc(app.propertyHandler.GetPropertyByID))
	mux.Get(propertyList, listMiddleware.ThenFunc(app.propertyHandler.ListProperties))
	mux.Post(propertyList, createMiddleware.ThenFunc(app.propertyHandler.CreateProperty))
	mux.Del("/properties/:id", adminAuthMiddleware.ThenFunc(app.propertyHandler.DeleteProperty))

	// Cache
	mux.Get("/cache/metrics", standardMiddleware.ThenFunc(app.cacheMetricsHandler.GetCacheMetrics))

	mux.Get("/healthz", standardMiddleware.ThenFunc(app.healthHandler.Healthz))

	return mux
}
