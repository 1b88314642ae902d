package main

import (
	"context"
	"flag"
	"log/syslog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/forgefit/forgefit"
	"github.com/forgefit/forgefit/config"
	"github.com/forgefit/forgefit/discord"
	"github.com/forgefit/forgefit/event"
	"github.com/forgefit/forgefit/persistent"
	"github.com/forgefit/forgefit/transport/rest"
	"github.com/forgefit/forgefit/transport/web"
	"github.com/forgefit/forgefit/view"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/sirupsen/logrus"
	logrusys "github.com/sirupsen/logrus/hooks/syslog"
	"github.com/tidwall/buntdb"
	"github.com/uptrace/bun"
)

const shutdownTimeout = 10 * time.Second

type services struct {
	users      forgefit.UserStore
	profiles   forgefit.ProfileStore
	activities forgefit.ActivityStore
	sessions   forgefit.SessionStore
	drafts     *forgefit.DraftService
}

func newServices(bdb *buntdb.DB, db *bun.DB, events forgefit.DraftEvents) (services, error) {
	activityStore := &persistent.ActivityStore{DB: db}
	sessionStore := &persistent.SessionStore{Buntdb: bdb, ActivityStore: activityStore}
	if err := sessionStore.CreateIndexes(); err != nil {
		return services{}, err
	}
	return services{
		users:      &persistent.UserStore{DB: db},
		profiles:   &persistent.ProfileStore{DB: db},
		activities: activityStore,
		sessions:   sessionStore,
		drafts: &forgefit.DraftService{
			Store:      &persistent.DraftStore{DB: db},
			Activities: activityStore,
			Events:     events,
		},
	}, nil
}

func newServer(cfg config.Config, s services, renderer *view.Renderer) *fiber.App {
	authController := rest.AuthController{
		CreateDiscordOAuthUrl: discord.RestOAuthUrlFactory(cfg.Discord.ClientId, cfg.Discord.RedirectUri),
		ExchangeAccessToken:   discord.RestAccessTokenExchanger(cfg.Discord.ClientId, cfg.Discord.ClientSecret, cfg.Discord.RedirectUri),
		UserMeProvider:        discord.RestUserMeProvider,
		SessionStore:          s.sessions,
		UserStore:             s.users,
		SecureCookie:          !cfg.Debug,
	}
	meController := rest.MeController{Query: &forgefit.MeQuery{Users: s.users, Profiles: s.profiles}}
	draftController := rest.DraftController{Service: s.drafts}
	activityController := rest.ActivityController{Store: s.activities}
	sessionController := rest.SessionController{Store: s.sessions}
	pageController := web.PageController{Drafts: s.drafts, Renderer: renderer}

	// pages live on the root app, /api errors go to the mounted app's handler
	server := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: web.ErrorHandler,
	})
	server.Use(rest.LogHandler())

	api := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: rest.ErrorHandler,
	})
	allowOrigins := cfg.AllowOrigins
	if cfg.Debug {
		allowOrigins += ", http://localhost:3000"
	}
	// credentials are refused by cors for wildcard origins
	api.Use(cors.New(cors.Config{AllowOrigins: allowOrigins, AllowCredentials: allowOrigins != "*"}))

	identityResolver := rest.IdentityResolver(s.sessions)
	requestAuthorizer := rest.RequestAuthorizer(s.sessions)
	api.Get("/status", monitor.New())
	authController.InstallTo(api)
	meController.InstallTo(identityResolver, api)
	draftController.InstallTo(requestAuthorizer, api)
	activityController.InstallTo(requestAuthorizer, api)
	sessionController.InstallTo(requestAuthorizer, api)
	api.Use(rest.NotFoundHandler)

	pageController.InstallTo(identityResolver, server)
	server.Mount("/api", api)
	server.Use(rest.NotFoundHandler)
	return server
}

func setupLogger(debug bool, useSyslog bool) {
	logrus.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: time.Stamp,
		FullTimestamp:   true,
	})
	if debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if !useSyslog {
		return
	}

	syslogHook, err := logrusys.NewSyslogHook("", "", syslog.LOG_USER, "forgefit")
	if err != nil {
		logrus.WithError(err).Fatalln("Could not create syslog hook.")
		return
	}
	logrus.AddHook(syslogHook)
}

func newDraftEvents(cfg config.Config) (forgefit.DraftEvents, func() error) {
	if len(cfg.Kafka.Brokers) == 0 {
		logrus.Infoln("No kafka brokers configured, draft events go to log.")
		return event.LogPublisher{}, func() error { return nil }
	}
	logrus.WithField("brokers", strings.Join(cfg.Kafka.Brokers, ",")).
		WithField("topic", cfg.Kafka.Topic).
		Infoln("Publishing draft events to kafka.")
	publisher := event.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	return publisher, publisher.Close
}

func awaitInterruption() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}

func main() {
	configDir := flag.String("config", ".", "directory with optional .env and config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	setupLogger(cfg.Debug, cfg.LogSyslog)
	if err != nil {
		logrus.WithError(err).Fatalln("Invalid configuration.")
	}
	logrus.Infoln("Starting backend.")

	bdb, err := buntdb.Open(cfg.BuntPath)
	if err != nil {
		logrus.WithError(err).Fatalln("Could not open buntdb.")
	}
	defer bdb.Close()

	logrus.Infoln("Opening database.")
	ctx := context.Background()
	pg := persistent.PgOpen(ctx, cfg.PostgresDsn, cfg.DbVerbose)
	defer pg.Close()
	if err := persistent.CreateSchema(ctx, pg); err != nil {
		logrus.WithError(err).Fatalln("Could not create database schema.")
	}

	events, closeEvents := newDraftEvents(cfg)
	defer func() {
		if err := closeEvents(); err != nil {
			logrus.WithError(err).Warningln("Could not close event publisher.")
		}
	}()

	s, err := newServices(bdb, pg, events)
	if err != nil {
		logrus.WithError(err).Fatalln("Could not create services.")
	}
	renderer, err := view.NewRenderer()
	if err != nil {
		logrus.WithError(err).Fatalln("Could not load views.")
	}
	server := newServer(cfg, s, renderer)

	logrus.WithField("addr", cfg.ListenAddr).Infoln("Starting listening... To shut down use ^C")
	go func() {
		if err := server.Listen(cfg.ListenAddr); err != nil {
			logrus.WithError(err).Fatalln("Could not listen.")
		}
	}()

	awaitInterruption()

	logrus.Infoln("Shutting down...")
	if err := server.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logrus.WithError(err).Warningln("Fiber shutdown failed.")
	}
}
