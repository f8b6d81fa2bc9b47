package mqtt

import (
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// Availability announcements for the relay status topic.
//
// The relay publishes a retained status payload on every connect and on
// graceful shutdown, and registers a Last Will so the broker announces
// unexpected disconnects. Downstream consumers subscribe to the status
// topic to know whether ingested topics are currently being relayed.
//
// Payloads are JSON:
//
//	{"status":"online","client_id":"fluxer-relay","timestamp":"..."}
//	{"status":"offline","client_id":"fluxer-relay","reason":"graceful_shutdown","timestamp":"..."}
//	{"status":"offline","client_id":"fluxer-relay","reason":"unexpected_disconnect","timestamp":"..."}

// buildOnlinePayload creates the JSON payload for online status messages.
func buildOnlinePayload(clientID string) string {
	return fmt.Sprintf(
		`{"status":"online","client_id":"%s","timestamp":"%s"}`,
		clientID,
		time.Now().UTC().Format(time.RFC3339),
	)
}

// buildOfflinePayload creates the JSON payload for graceful offline status.
func buildOfflinePayload(clientID string) string {
	return fmt.Sprintf(
		`{"status":"offline","client_id":"%s","reason":"graceful_shutdown","timestamp":"%s"}`,
		clientID,
		time.Now().UTC().Format(time.RFC3339),
	)
}

// buildLWTPayload creates the JSON payload the broker publishes when the
// relay disconnects without a graceful shutdown.
//
// The timestamp is the connect time, not the disconnect time: the will is
// registered up front and the broker replays it verbatim.
func buildLWTPayload(clientID string) string {
	return fmt.Sprintf(
		`{"status":"offline","client_id":"%s","reason":"unexpected_disconnect","timestamp":"%s"}`,
		clientID,
		time.Now().UTC().Format(time.RFC3339),
	)
}

// publishStatus publishes a retained availability payload to the relay
// status topic with the configured QoS.
//
// Callers that need delivery confirmation wait on the returned token;
// connection callbacks fire and forget.
func (c *Client) publishStatus(payload string) pahomqtt.Token {
	return c.client.Publish(Topics{}.RelayStatus(), byte(c.cfg.QoS), true, payload)
}
