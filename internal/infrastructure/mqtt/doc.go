// Package mqtt provides MQTT client connectivity for the Fluxer relay.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// Fluxer consumes measurement payloads published by producers (sensors,
// collectors, other services) and relays them to the time-series
// database. The broker decouples producers from the relay:
//
//	Producers → MQTT Broker → Fluxer Relay → TSDB
//
// The relay is a one-way consumer. Its only publications are the
// retained availability payloads on fluxer/relay/status.
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Performance Characteristics
//
//   - Connection: <1 second to local broker
//   - Reconnect: Exponential backoff 1s-60s
//   - Message throughput: Broker-limited (typically 10K+ msg/sec)
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Subscribe to all ingest topics
//	err = client.Subscribe(mqtt.Topics{}.AllIngest(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
package mqtt
