package memory_test

import (
	"context"
	"testing"

	"github.com/Gunvolt24/wf_cart/internal/repo/memory"
)

func TestClientStorage_Scopes(t *testing.T) {
	ctx := context.Background()
	s := memory.NewClientStorage()

	a, b := s.Scope("a"), s.Scope("b")

	if _, found, err := a.GetItem(ctx, "k"); found || err != nil {
		t.Fatalf("missing key must be (\"\", false, nil), got found=%v err=%v", found, err)
	}
	if err := a.SetItem(ctx, "k", "v1"); err != nil {
		t.Fatal(err)
	}
	if v, found, _ := a.GetItem(ctx, "k"); !found || v != "v1" {
		t.Fatalf("got %q found=%v", v, found)
	}
	if _, found, _ := b.GetItem(ctx, "k"); found {
		t.Fatal("scopes must be isolated")
	}
	// повторный Scope видит те же данные
	if v, _, _ := s.Scope("a").GetItem(ctx, "k"); v != "v1" {
		t.Fatalf("scope handle must share data, got %q", v)
	}

	if err := a.RemoveItem(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := a.GetItem(ctx, "k"); found {
		t.Fatal("key must be removed")
	}
	if err := b.RemoveItem(ctx, "absent"); err != nil {
		t.Fatalf("removing absent key: %v", err)
	}
}

func TestClientStorage_Drop(t *testing.T) {
	ctx := context.Background()
	s := memory.NewClientStorage()
	_ = s.Scope("a").SetItem(ctx, "k", "v")

	s.Drop("a")
	if _, found, _ := s.Scope("a").GetItem(ctx, "k"); found {
		t.Fatal("dropped scope must be empty")
	}
}
