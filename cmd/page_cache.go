package main

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"time"

	"propertyBack/internal/cache"
)

type cachedPage struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// viewCacheKey ignores the query string: cached views never read it.
func viewCacheKey(method, path string) string {
	return "views:page:" + method + ":" + path
}

// responseCapture tees the handler's response so it can be stored.
type responseCapture struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (rc *responseCapture) WriteHeader(status int) {
	rc.status = status
	rc.ResponseWriter.WriteHeader(status)
}

func (rc *responseCapture) Write(b []byte) (int, error) {
	rc.body.Write(b)
	return rc.ResponseWriter.Write(b)
}

// cachePage stores whole 200 GET responses for ttl and replays them on later requests.
func (app *application) cachePage(ttl time.Duration) func(http.Handler) http.Handler {
	maxAge := "max-age=" + strconv.Itoa(int(ttl/time.Second))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}
			key := viewCacheKey(r.Method, r.URL.Path)

			var page cachedPage
			err := cache.GetJSON(r.Context(), app.cache, key, &page)
			if err == nil {
				if page.ContentType != "" {
					w.Header().Set("Content-Type", page.ContentType)
				}
				w.Header().Set("Cache-Control", maxAge)
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(page.Status)
				_, _ = w.Write(page.Body)
				return
			}
			if !errors.Is(err, cache.ErrCacheMiss) {
				app.errorLog.Printf("page cache read %s: %v", key, err)
			}

			w.Header().Set("Cache-Control", maxAge)
			w.Header().Set("X-Cache", "MISS")
			rc := &responseCapture{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rc, r)

			if rc.status != http.StatusOK {
				return
			}
			page = cachedPage{
				Status:      rc.status,
				ContentType: w.Header().Get("Content-Type"),
				Body:        rc.body.Bytes(),
			}
			if err := cache.SetJSON(r.Context(), app.cache, key, page, ttl); err != nil {
				app.errorLog.Printf("page cache write %s: %v", key, err)
			}
		})
	}
}
