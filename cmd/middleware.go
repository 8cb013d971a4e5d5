package main

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/google/uuid"

	"auctionmap/internal/api"
)

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-Content-Type-Options", "nosniff")
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
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		app.infoLog.Printf("%s - %s %s %s id=%s", r.RemoteAddr, r.Proto, r.Method, r.URL.RequestURI(), id)
		next.ServeHTTP(w, r.WithContext(api.WithRequestID(r.Context(), id)))
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverError(w, fmt.Errorf("%s\n%s", err, debug.Stack()))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requireAdmin admits only sessions whose token carries the ADMIN role. A
// missing or undecodable token is unauthorized; another role is forbidden.
func (app *application) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !app.session.LoggedIn() {
			app.clientError(w, http.StatusUnauthorized, "로그인이 필요합니다.")
			return
		}
		if _, err := app.session.Claims(); err != nil {
			app.errorLog.Printf("admin guard: decode token: %v", err)
			app.clientError(w, http.StatusUnauthorized, "로그인이 필요합니다.")
			return
		}
		if !app.session.IsAdmin() {
			app.clientError(w, http.StatusForbidden, "관리자만 접근할 수 있습니다.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
