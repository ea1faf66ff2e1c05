package kafka

// Config holds Kafka connection parameters for producers.
type Config struct {
	Brokers  []string
	ClientID string

	// SASL authentication.
	SASLEnabled   bool
	SASLMechanism string // "PLAIN", "SCRAM-SHA-256" or "SCRAM-SHA-512"
	SASLUsername  string
	SASLPassword  string

	TLS bool
}
