package kafka

// Config holds Kafka connection parameters.
type Config struct {
	// SASLMechanism is "PLAIN", "SCRAM-SHA-256" or "SCRAM-SHA-512".
	SASLMechanism string
	SASLUsername  string
	SASLPassword  string
	ClientID      string

	Brokers []string

	TLS bool
}

// SASLEnabled reports whether credentials were supplied.
func (c Config) SASLEnabled() bool {
	return c.SASLUsername != ""
}
