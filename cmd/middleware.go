package main

import (
	"fmt"
	"net/http"
	"strings"
)

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Frame-Options", "deny")
		next.ServeHTTP(w, r)
	})
}

func makeResponseJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.infoLog.Printf("%s - %s %s %s", r.RemoteAddr, r.Proto, r.Method, r.URL.RequestURI())
		next.ServeHTTP(w, r)
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverError(w, fmt.Errorf("%s", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (app *application) JWTMiddleware(next http.Handler, requiredRole string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.tokens == nil {
			app.jsonError(w, http.StatusServiceUnavailable, "Authentication is not configured")
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			app.jsonError(w, http.StatusUnauthorized, "Authorization header missing or invalid")
			return
		}

		claims, err := app.tokens.Parse(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			app.jsonError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		switch requiredRole {
		case "admin":
			if claims.Role != "admin" {
				app.jsonError(w, http.StatusForbidden, "Forbidden: only admins allowed")
				return
			}
		}

		app.infoLog.Printf("%s %s by %s %q", r.Method, r.URL.Path, claims.Role, claims.UserID)
		next.ServeHTTP(w, r)
	})
}

// exactPath rejects requests whose path only shares the route's prefix. pat
// matches patterns ending in a slash as prefixes.
func (app *application) exactPath(path string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != path {
				app.jsonError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
