package core

import "testing"

func TestProviderRegistry_RegisterAndGet(t *testing.T) {
	registry := NewProviderRegistry()
	if err := registry.Register(&testProvider{id: "hubspot"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	provider, ok := registry.Get("hubspot")
	if !ok || provider.ID() != "hubspot" {
		t.Fatalf("expected registered provider")
	}
	if _, ok := registry.Get("pipedrive"); ok {
		t.Fatalf("unexpected provider")
	}
	if _, ok := registry.Get(""); ok {
		t.Fatalf("blank id must not resolve")
	}
}

func TestProviderRegistry_RejectsDuplicatesAndNil(t *testing.T) {
	registry := NewProviderRegistry()
	if err := registry.Register(&testProvider{id: "hubspot"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(&testProvider{id: "hubspot"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected nil provider error")
	}
	if err := registry.Register(&testProvider{id: "  "}); err == nil {
		t.Fatalf("expected blank id error")
	}
}

func TestProviderRegistry_ListSorted(t *testing.T) {
	registry := NewProviderRegistry()
	for _, id := range []string{"zoho", "hubspot", "pipedrive"} {
		if err := registry.Register(&testProvider{id: id}); err != nil {
			t.Fatalf("register %s: %v", id, err)
		}
	}
	providers := registry.List()
	if len(providers) != 3 {
		t.Fatalf("expected 3 providers, got %d", len(providers))
	}
	want := []string{"hubspot", "pipedrive", "zoho"}
	for i, provider := range providers {
		if provider.ID() != want[i] {
			t.Fatalf("expected %s at %d, got %s", want[i], i, provider.ID())
		}
	}
}
