package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	config "github.com/avvvet/poketracker/configs"
	"github.com/avvvet/poketracker/internal/comm"
	natscli "github.com/avvvet/poketracker/internal/nats"
	"github.com/avvvet/poketracker/internal/websvc/broker"
	"github.com/avvvet/poketracker/internal/websvc/client"
	"github.com/avvvet/poketracker/internal/websvc/handlers"
	"github.com/avvvet/poketracker/internal/websvc/ws"
)

const SERVICE_NAME = "web"

var instanceId string

func init() {
	instanceId = config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service")
	config.LoadEnv(SERVICE_NAME)
}

func main() {
	cfg := config.Load()

	// Initialize websocket hub
	s := ws.NewWs()

	// subscribe to card events, live refresh is skipped without NATS
	var sub *nats.Subscription
	n, err := natscli.Connect(cfg.NatsURL, cfg.NatsToken, SERVICE_NAME+"-"+instanceId)
	if err != nil {
		log.Warnf("NATS unavailable, live refresh disabled: %v", err)
	} else {
		defer n.Conn.Close()
		log.Printf("NATS connection established successfully %s", n.Url)

		b := broker.NewBroker(n.Conn, s.Broadcast)
		sub, err = b.Subscribe(comm.CardEventsTopic)
		if err != nil {
			log.Errorf("Error: unable to subscribe to %s %v", comm.CardEventsTopic, err)
			os.Exit(1)
		}
	}

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)

	// to protect the service from any over requests
	r.Use(httprate.LimitByIP(cfg.RateLimit, 1*time.Minute))

	api := client.New(cfg.CardAPIURL, nil)
	h := handlers.NewHandler(api, s)
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + cfg.WebServicePort,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s, card api %s", SERVICE_NAME, server.Addr, cfg.CardAPIURL)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	if sub != nil {
		sub.Unsubscribe()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
