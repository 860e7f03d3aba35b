package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/poolkaro/poolkaro-backend/api"
	"github.com/poolkaro/poolkaro-backend/internal/o11y"
	"github.com/poolkaro/poolkaro-backend/pricefeed"
	"github.com/poolkaro/poolkaro-backend/ride"
	"github.com/poolkaro/poolkaro-backend/room"
)

var cli = struct {
	DatabaseURL string `name:"database-url" env:"DATABASE_URL" help:"Postgres DSN; rides are kept in memory when unset"`
	Port        int    `name:"port" env:"PORT" default:"8080"`

	PricesFile string `name:"prices-file" env:"PRICES_FILE" default:"data.txt"`
	RedisAddr  string `name:"redis-addr" env:"REDIS_ADDR" help:"read provider prices from Redis instead of the prices file"`

	OTLPEndpoint string `name:"otlp-endpoint" env:"OTLP_ENDPOINT"`

	MetricsUsername string `name:"metrics-username" env:"METRICS_USERNAME"`
	MetricsPassword string `name:"metrics-password" env:"METRICS_PASSWORD"`
}{}

func main() {
	if err := run(); err != nil {
		log.Fatalf("unexpected error: %v", err)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	kong.Parse(&cli)

	obs, cleanup, err := o11y.Setup(ctx, cli.OTLPEndpoint)
	defer cleanup()
	if err != nil {
		return err
	}

	var store ride.Store = ride.NewMemoryStore()
	if cli.DatabaseURL != "" {
		db, err := sqlx.ConnectContext(ctx, "pgx", cli.DatabaseURL)
		if err != nil {
			return err
		}
		if err := db.PingContext(ctx); err != nil {
			return err
		}
		sqlStore := ride.NewSQLStore(db)
		if err := sqlStore.EnsureSchema(ctx); err != nil {
			return err
		}
		store = sqlStore
	}

	var feed pricefeed.Source = pricefeed.NewFileSource(cli.PricesFile)
	if cli.RedisAddr != "" {
		feed = pricefeed.NewRedisSource(redis.NewClient(&redis.Options{Addr: cli.RedisAddr}), obs.Logger)
	}

	dir := ride.NewDirectory(store)
	rooms := room.NewBroadcaster(obs.Logger)

	a := api.New(dir, rooms, feed, obs, cli.MetricsUsername, cli.MetricsPassword)

	serv := http.Server{
		Addr:    fmt.Sprintf(":%d", cli.Port),
		Handler: a.Router(),
	}

	go func() {
		if err := serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()
	obs.Logger.Info("server started", "port", cli.Port)

	<-ctx.Done()
	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return serv.Shutdown(ctx)
}
