package redisx

import "time"

const (
	// Bearer session: session:{token} -> JSON claims
	KeySession = "session:%s"

	// Tokens issued to a user, for revocation: user_sessions:{user_id} -> set of tokens
	KeyUserSessions = "user_sessions:%d"

	// Idempotent order create: idem:order:create:{customer_id}:{key} -> order_id
	KeyIdemOrderCreate = "idem:order:create:%d:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLDedup       = 48 * time.Hour
)
