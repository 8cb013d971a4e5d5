package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"auctionmap/internal/api"
	"auctionmap/internal/config"
	"auctionmap/internal/detail"
	"auctionmap/internal/filter"
	"auctionmap/internal/handlers"
	"auctionmap/internal/listing"
	"auctionmap/internal/models"
	"auctionmap/internal/saved"
	"auctionmap/internal/session"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger

	session *session.Store
	saved   *saved.Store
	filter  *filter.Controller
	listing *listing.Coordinator
	detail  *detail.Loader

	stateHandler      *handlers.StateHandler
	searchHandler     *handlers.SearchHandler
	itemHandler       *handlers.ItemHandler
	sessionHandler    *handlers.SessionHandler
	savedHandler      *handlers.SavedHandler
	statisticsHandler *handlers.StatisticsHandler
	adminHandler      *handlers.AdminHandler
}

// initializeApp builds every store once and wires the observers between
// them. The returned cleanup closes storage connections.
func initializeApp(ctx context.Context, cfg config.Config, errorLog, infoLog *log.Logger) (*application, func(), error) {
	logger := stdLogger{infoLog: infoLog, errorLog: errorLog}

	storage, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// Session
	sessionStore := session.NewStore(ctx, storage, logger)

	// Backend client
	client := api.NewClient(&http.Client{Timeout: cfg.APITimeout()}, cfg.API.BaseURL, sessionStore, logger)

	// Stores
	savedStore := saved.NewStore(client, sessionStore, logger)
	sessionStore.Subscribe(savedStore.SessionChanged(ctx))
	if sessionStore.LoggedIn() {
		savedStore.SessionChanged(ctx)("", sessionStore.Token())
	}

	filterCtrl := filter.NewController()
	center := models.GeoPoint{Lat: cfg.Map.CenterLat, Lng: cfg.Map.CenterLng}
	coordinator := listing.NewCoordinator(ctx, client, cfg.Listing.PageSize, center, logger)
	filterCtrl.Subscribe(coordinator.Changed)

	detailLoader := detail.NewLoader(client, logger)

	app := &application{
		errorLog: errorLog,
		infoLog:  infoLog,

		session: sessionStore,
		saved:   savedStore,
		filter:  filterCtrl,
		listing: coordinator,
		detail:  detailLoader,

		stateHandler: &handlers.StateHandler{
			Filter:  filterCtrl,
			Listing: coordinator,
			Saved:   savedStore,
			Session: sessionStore,
			Detail:  detailLoader,
			MapKey:  cfg.Map.AppKey,
		},
		searchHandler:     &handlers.SearchHandler{Filter: filterCtrl, Listing: coordinator},
		itemHandler:       &handlers.ItemHandler{Detail: detailLoader},
		sessionHandler:    &handlers.SessionHandler{API: client, Session: sessionStore},
		savedHandler:      &handlers.SavedHandler{Saved: savedStore},
		statisticsHandler: &handlers.StatisticsHandler{API: client},
		adminHandler:      &handlers.AdminHandler{API: client},
	}
	return app, closeStorage, nil
}

// openStorage selects the token storage backend from config.
func openStorage(ctx context.Context, cfg config.Config) (session.Storage, func(), error) {
	switch cfg.Session.Backend {
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		log.Println("Successfully connected to redis")
		return session.NewRedisStorage(rdb, cfg.Redis.Prefix, cfg.RedisTTL()), func() { rdb.Close() }, nil

	case config.BackendSQL:
		db, err := openDB(cfg.Database.Driver, cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		storage, err := session.NewSQLStorage(ctx, db, cfg.Database.Driver, cfg.Database.Table)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return storage, func() { db.Close() }, nil

	default:
		path := cfg.Session.FilePath
		if path == "" {
			var err error
			if path, err = session.DefaultFilePath(); err != nil {
				return nil, nil, fmt.Errorf("session file path: %w", err)
			}
		}
		return session.NewFileStorage(path), func() {}, nil
	}
}

func openDB(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		log.Printf("Failed to open DB: %v", err)
		return nil, err
	}
	if err = db.Ping(); err != nil {
		log.Printf("Failed to ping DB: %v", err)
		db.Close()
		return nil, err
	}
	db.SetMaxIdleConns(2)
	log.Println("Successfully connected to database")
	return db, nil
}
