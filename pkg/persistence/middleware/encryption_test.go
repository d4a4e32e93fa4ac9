package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/bayesnet/pkg/adapters/memory"
	"github.com/aretw0/bayesnet/pkg/domain"
	"github.com/aretw0/bayesnet/pkg/persistence/middleware"
	"github.com/aretw0/bayesnet/pkg/ports"
	"github.com/aretw0/bayesnet/pkg/ports/tests"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func diagnosis() *domain.Posterior {
	return &domain.Posterior{
		ID:        "p-1",
		Network:   "toothache",
		Algorithm: "likelihood",
		Query:     []string{"Cavity"},
		Evidence:  map[string]string{"Toothache": "true"},
		Samples:   1000,
		Entries: []domain.PosteriorEntry{
			{Values: []string{"true"}, Probability: 0.6},
			{Values: []string{"false"}, Probability: 0.4},
		},
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	tests.RunResultStoreContract(t, mw(memory.NewStore()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlyingStore := memory.NewStore()
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	secureStore := mw(underlyingStore)
	ctx := context.Background()

	if err := secureStore.Save(ctx, "k", diagnosis()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// The underlying store only holds the envelope.
	stored, err := underlyingStore.Load(ctx, "k")
	if err != nil {
		t.Fatalf("Underlying load failed: %v", err)
	}
	if stored.Evidence != nil || stored.Entries != nil || stored.Query != nil {
		t.Fatalf("Expected query, evidence and distribution to be hidden, got %+v", stored)
	}
	if stored.Sealed == "" || strings.Contains(stored.Sealed, "Toothache") {
		t.Fatalf("Expected opaque sealed payload, got %q", stored.Sealed)
	}
	if stored.ID != "p-1" || stored.Network != "toothache" {
		t.Errorf("Expected envelope to keep id and network, got %q %q", stored.ID, stored.Network)
	}

	loaded, err := secureStore.Load(ctx, "k")
	if err != nil {
		t.Fatalf("Load via middleware failed: %v", err)
	}
	if loaded.Evidence["Toothache"] != "true" {
		t.Errorf("Expected evidence Toothache=true, got %v", loaded.Evidence)
	}
	if p, _ := loaded.Probability("true"); p != 0.6 {
		t.Errorf("Expected P(true)=0.6, got %v", p)
	}
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlyingStore := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)
	ctx := context.Background()

	secureStoreOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlyingStore)
	if err := secureStoreOld.Save(ctx, "k", diagnosis()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	secureStoreNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlyingStore)

	loaded, err := secureStoreNew.Load(ctx, "k")
	if err != nil {
		t.Fatalf("Load with rotated key failed: %v", err)
	}
	if loaded.ID != "p-1" {
		t.Errorf("Decryption with fallback key failed")
	}

	if err := secureStoreNew.Save(ctx, "k", loaded); err != nil {
		t.Fatalf("Save with new key failed: %v", err)
	}
	if _, err := secureStoreOld.Load(ctx, "k"); err == nil {
		t.Error("Expected failure when loading new-key encryption with old-key middleware")
	}
}

func TestEncryptionMiddleware_RejectsPlainRecords(t *testing.T) {
	underlyingStore := memory.NewStore()
	ctx := context.Background()
	_ = underlyingStore.Save(ctx, "k", diagnosis())

	secureStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlyingStore)
	if _, err := secureStore.Load(ctx, "k"); err == nil {
		t.Error("Expected plain record to be rejected")
	}
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic for invalid key size")
		}
	}()
	middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
}

func TestParseKey(t *testing.T) {
	key := generateKey(t)
	got, err := middleware.ParseKey(hex.EncodeToString(key))
	if err != nil || string(got) != string(key) {
		t.Fatalf("ParseKey round trip failed: %v", err)
	}
	if _, err := middleware.ParseKey("zz"); err == nil {
		t.Error("Expected error for non-hex key")
	}
	if _, err := middleware.ParseKey("abcd"); err == nil {
		t.Error("Expected error for short key")
	}
}

func TestChain(t *testing.T) {
	var order []string
	tag := func(name string) middleware.Middleware {
		return func(next ports.ResultStore) ports.ResultStore {
			order = append(order, name)
			return next
		}
	}
	middleware.Chain(memory.NewStore(), tag("outer"), tag("inner"))
	if strings.Join(order, ",") != "inner,outer" {
		t.Errorf("Expected inner wrapped first, got %v", order)
	}
}
