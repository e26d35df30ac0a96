package dsl

// CommonSchemas is a set of reusable, locked nodes. Attach them directly or
// derive variants with Copy (e.g. Common.UUID.Copy().Optional()).
type CommonSchemas struct {
	UUID         *StringNode
	Alnum        *StringNode // letters and digits, optionally separated by '-', '_' or '.'
	Email        *StringNode
	Timestamp    *StringNode // RFC 3339 date-time
	EpochSeconds *IntegerNode
	EpochMillis  *IntegerNode
}

// Common holds the shared instances.
var Common = newCommon()

func newCommon() CommonSchemas {
	return CommonSchemas{
		UUID: String().
			Format("uuid").
			Pattern(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`).
			Examples("0b6a0a2e-1f3c-4d5e-8f9a-0b1c2d3e4f5a").
			Lock(),
		Alnum: String().
			Pattern(`^[A-Za-z0-9]+([-_.][A-Za-z0-9]+)*$`).
			Examples("build-42", "v1.2_rc").
			Lock(),
		Email: String().
			Format("email").
			Examples("alice@example.com").
			Lock(),
		Timestamp: String().
			Format("date-time").
			Examples("2024-01-02T03:04:05Z").
			Lock(),
		EpochSeconds: Integer().
			Min(0).
			AsInt64().
			Desc("Seconds since the Unix epoch.").
			Lock(),
		EpochMillis: Integer().
			Min(0).
			AsInt64().
			Desc("Milliseconds since the Unix epoch.").
			Lock(),
	}
}
