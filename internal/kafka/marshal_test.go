package kafka

import (
	"encoding/json"
	"testing"
)

func TestUnwrapPayload(t *testing.T) {
	type payload struct {
		OrderID int64 `json:"order_id"`
	}
	got, err := UnwrapPayload[payload](json.RawMessage(MustMarshal(payload{OrderID: 42})))
	if err != nil {
		t.Fatal(err)
	}
	if got.OrderID != 42 {
		t.Fatalf("got %+v", got)
	}
	if _, err := UnwrapPayload[payload](json.RawMessage(`{"order_id":"x"}`)); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestMustMarshalPanicsOnUnsupported(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustMarshal(make(chan int))
}
