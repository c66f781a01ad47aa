package cache

import (
	"context"
	"testing"
)

func Test_nilService_isNoop(t *testing.T) {
	var svc *Service

	hit, err := svc.Get(context.Background(), "key", nil)
	if err != nil {
		t.Errorf("Get() on nil service: %v", err)
	}
	if hit {
		t.Error("Get() on nil service reported a hit")
	}
	if err := svc.Set(context.Background(), "key", "value", 0); err != nil {
		t.Errorf("Set() on nil service: %v", err)
	}
	if err := svc.Delete(context.Background(), "key"); err != nil {
		t.Errorf("Delete() on nil service: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Errorf("Close() on nil service: %v", err)
	}
}

func Test_NewService_badURL(t *testing.T) {
	if _, err := NewService("not-a-redis-url"); err == nil {
		t.Error("expected an error for a malformed URL")
	}
}
