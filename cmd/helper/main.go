package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"

	"decarpool/internal/carpool-service/core/domain/dto"
	"decarpool/internal/config"
	"decarpool/internal/mylogger"

	"github.com/gorilla/websocket"
)

// Small CLI that tails the ride event feed over WebSocket. Handy for
// watching created/booked/completed events while poking the HTTP API.
func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := mylogger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	token := flag.String("token", "", "JWT access token")
	host := flag.String("host", fmt.Sprintf("localhost:%v", cfg.Srv.CarpoolServicePort), "carpool service host:port")
	flag.Parse()

	if *token == "" {
		log.Fatal("Token is required")
	}

	wsURL := url.URL{
		Scheme:   "ws",
		Host:     *host,
		Path:     "/ws/rides",
		RawQuery: url.Values{"token": {*token}}.Encode(),
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	if err != nil {
		log.Fatalf("Failed to connect to WebSocket server: %v", err)
	}
	defer conn.Close()

	appLogger.Action("feed_connected").Info("Connected to ride event feed", "host", *host)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			appLogger.Error("Error reading WebSocket message", err)
			return
		}

		var ev dto.RideEvent
		if err := json.Unmarshal(message, &ev); err != nil {
			appLogger.Warn("Skipping malformed event", "payload", string(message))
			continue
		}

		appLogger.Info("Ride event",
			"type", ev.Type,
			"ride_id", ev.RideID,
			"mirrored", ev.Mirrored,
			"correlation_id", ev.CorrelationID,
		)
	}
}
