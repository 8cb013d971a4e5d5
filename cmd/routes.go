package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	adminMiddleware := standardMiddleware.Append(app.requireAdmin)

	mux := pat.New()

	mux.Get("/health", standardMiddleware.ThenFunc(app.stateHandler.Health))
	mux.Get("/state", standardMiddleware.ThenFunc(app.stateHandler.State))
	mux.Get("/map", standardMiddleware.ThenFunc(app.stateHandler.Map))

	// Search
	mux.Get("/search/regions", standardMiddleware.ThenFunc(app.searchHandler.Regions))
	mux.Put("/search/draft", standardMiddleware.ThenFunc(app.searchHandler.UpdateDraft))
	mux.Post("/search/commit", standardMiddleware.ThenFunc(app.searchHandler.Commit))
	mux.Put("/search/region", standardMiddleware.ThenFunc(app.searchHandler.SetRegion))
	mux.Put("/search/page", standardMiddleware.ThenFunc(app.searchHandler.SetPage))

	// Detail
	mux.Del("/items/selected", standardMiddleware.ThenFunc(app.itemHandler.Close))
	mux.Get("/items/:id", standardMiddleware.ThenFunc(app.itemHandler.Select))
	mux.Get("/detail", standardMiddleware.ThenFunc(app.itemHandler.Current))

	// Session
	mux.Post("/session/register", standardMiddleware.ThenFunc(app.sessionHandler.Register))
	mux.Post("/session/login", standardMiddleware.ThenFunc(app.sessionHandler.Login))
	mux.Post("/session/logout", standardMiddleware.ThenFunc(app.sessionHandler.Logout))

	// Saved items
	mux.Post("/saved/:id/toggle", standardMiddleware.ThenFunc(app.savedHandler.Toggle))
	mux.Get("/saved", standardMiddleware.ThenFunc(app.savedHandler.IDs))
	mux.Get("/mypage", standardMiddleware.ThenFunc(app.savedHandler.MyPage))

	mux.Get("/statistics", standardMiddleware.ThenFunc(app.statisticsHandler.Summary))

	// Admin
	mux.Get("/admin/users", adminMiddleware.ThenFunc(app.adminHandler.Users))
	mux.Post("/admin/batch", adminMiddleware.ThenFunc(app.adminHandler.RunBatch))

	return mux
}
