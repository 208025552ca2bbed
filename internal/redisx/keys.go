package redisx

import "time"

const (
	// Idempotency for payment creation: idem:payment:create:{external_id} -> order_id
	KeyIdemPaymentCreate = "idem:payment:create:%s"

	// Cache order status: order_status:{order_id} -> {"status": "...", ...}
	KeyOrderStatus = "order_status:%s"

	// Cached catalog tiers: catalog:{platform}:{service_type}:{quality} -> JSON tier list
	KeyCatalog = "catalog:%s:%s:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLStatusCache = 5 * time.Minute
	TTLCatalog     = 10 * time.Minute
	TTLDedup       = 48 * time.Hour
)
