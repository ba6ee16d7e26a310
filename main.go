package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brewhouse/activity"
	"brewhouse/admin"
	"brewhouse/auth"
	"brewhouse/cart"
	"brewhouse/catalog"
	"brewhouse/db"
	"brewhouse/globals"
	"brewhouse/orders"
	"brewhouse/payments"
	"brewhouse/ratelim"
	"brewhouse/rdx"
	"brewhouse/reports"
	"brewhouse/routes"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s - %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	} else if port[0] != ':' {
		port = ":" + port
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := db.Init(ctx); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	cancel()
	rdx.Init()

	// activity fan-out: mongo sink, redis channel, websocket hub
	hub := activity.NewHub()
	go hub.Run()
	logger := activity.NewLogger(activity.MongoSink{},
		activity.RedisPublisher{},
		activity.HubPublisher{Hub: hub})
	go logger.Run()

	gateway := payments.NewRESTGateway(
		globals.Getenv("GATEWAY_URL", "https://api.stripe.com"),
		os.Getenv("GATEWAY_SECRET_KEY"))
	renderQR := func(amount float64) (string, error) {
		return payments.RenderQR(payments.BuildPromptPayPayload(globals.PromptPayID, amount))
	}

	cartStore := cart.MongoStore{}
	cartSvc := cart.NewService(cartStore, catalog.MongoReader{})
	orderSvc := orders.NewService(orders.MongoStore{}, cartStore, gateway, renderQR, globals.Currency, logger)
	orderHandler := orders.NewHandler(orderSvc)

	orderSource := reports.MongoOrderSource{}
	reportHandler := reports.NewHandler(reports.NewService(orderSource, catalog.MongoReader{}), orderSource)

	rateLimiter := ratelim.NewRateLimiter()

	router := httprouter.New()
	router.GET("/health", Index)
	routes.AddStaticRoutes(router)
	routes.AddAuthRoutes(router, auth.NewAPI(logger), rateLimiter)
	routes.AddCatalogRoutes(router, catalog.NewAPI(logger))
	routes.AddCartRoutes(router, cart.NewHandler(cartSvc))
	routes.AddOrderRoutes(router, orderHandler, rateLimiter)
	routes.AddActivityRoutes(router, hub)
	routes.AddReportRoutes(router, reportHandler)
	routes.AddAdminRoutes(router, admin.NewAPI(logger), orderHandler)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		logger.Stop()
		hub.Stop()
	})

	go func() {
		log.Printf("Server listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutdown signal received; shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}

	if err := db.Client.Disconnect(context.Background()); err != nil {
		log.Println("Mongo disconnect error:", err)
	}

	log.Println("Server stopped cleanly")
}
