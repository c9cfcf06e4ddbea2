package redisx

import (
	"fmt"
	"testing"
)

func TestKeyFormats(t *testing.T) {
	if got := fmt.Sprintf(KeyIdemOrderCreate, 7, "abc"); got != "idem:order:create:7:abc" {
		t.Fatalf("got %q", got)
	}
	if got := fmt.Sprintf(KeyDedup, "notifier", "e1"); got != "dedup:notifier:e1" {
		t.Fatalf("got %q", got)
	}
	if TTLDedup < TTLIdempotency {
		t.Fatal("dedup window should outlive idempotency window")
	}
}
