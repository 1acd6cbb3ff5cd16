package testutil

// FixedSessionGenerator returns the same ledger session token every time.
//
// Recording the same inputs with the same FixedSessionGenerator produces
// byte-identical ledgers, which keeps golden comparisons stable.
type FixedSessionGenerator struct {
	token string
}

// NewFixedSessionGenerator creates a generator for token. An empty token
// selects "test-session-default".
func NewFixedSessionGenerator(token string) *FixedSessionGenerator {
	if token == "" {
		token = "test-session-default"
	}
	return &FixedSessionGenerator{token: token}
}

// Generate returns the fixed token.
func (g *FixedSessionGenerator) Generate() string {
	return g.token
}
