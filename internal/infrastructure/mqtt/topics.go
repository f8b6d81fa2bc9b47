package mqtt

import "fmt"

// Topic prefixes for the Fluxer relay.
//
// Ingest topics carry measurement payloads from producers:
//
//	fluxer/ingest/{source}
//
// Relay topics carry the relay's own announcements:
//
//	fluxer/relay/{subject}
const (
	// TopicPrefixIngest is the base for measurement ingest topics.
	TopicPrefixIngest = "fluxer/ingest"

	// TopicPrefixRelay is the base for relay announcement topics.
	TopicPrefixRelay = "fluxer/relay"
)

// Topics provides builders for Fluxer MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	statusTopic := topics.RelayStatus()
//	// Returns: "fluxer/relay/status"
type Topics struct{}

// Ingest returns the ingest topic for a named source.
//
// Example: fluxer/ingest/boiler-room
func (Topics) Ingest(source string) string {
	return fmt.Sprintf("%s/%s", TopicPrefixIngest, source)
}

// RelayStatus returns the relay availability topic.
//
// The relay publishes retained online/offline payloads here, and the
// broker publishes the Last Will here on unexpected disconnect.
//
// Example: fluxer/relay/status
func (Topics) RelayStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixRelay)
}

// AllIngest returns a pattern matching every ingest topic.
//
// Pattern: fluxer/ingest/#
func (Topics) AllIngest() string {
	return TopicPrefixIngest + "/#"
}
