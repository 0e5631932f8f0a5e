// Package privacy implements the masking engine.
package privacy

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/veridane/grcbridge/internal/core/domain"
	"github.com/veridane/grcbridge/pkg/token"
)

func TestTokenStore_RoundTrip(t *testing.T) {
	store, err := NewTokenStore()
	if err != nil {
		t.Fatalf("NewTokenStore: %v", err)
	}

	tok, err := store.Tokenize("520-12-3456", "SSN")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if !token.IsToken(tok) {
		t.Fatalf("Tokenize returned %q, not a token", tok)
	}

	value, context, err := store.Resolve(tok)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if value != "520-12-3456" {
		t.Errorf("value = %q", value)
	}
	if context != "SSN" {
		t.Errorf("context = %q", context)
	}
}

func TestTokenStore_DedupByValue(t *testing.T) {
	store, err := NewTokenStore()
	if err != nil {
		t.Fatalf("NewTokenStore: %v", err)
	}

	first, err := store.Tokenize("shared-value", "EMAIL")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	second, err := store.Tokenize("shared-value", "EMAIL")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if first != second {
		t.Errorf("same value produced tokens %q and %q", first, second)
	}
	if store.Size() != 1 {
		t.Errorf("Size = %d, want 1", store.Size())
	}
}

func TestTokenStore_DistinctValuesDistinctTokens(t *testing.T) {
	store, err := NewTokenStore()
	if err != nil {
		t.Fatalf("NewTokenStore: %v", err)
	}

	a, _ := store.Tokenize("value-a", "NAME")
	b, _ := store.Tokenize("value-b", "NAME")
	if a == b {
		t.Error("distinct values shared one token")
	}
}

func TestTokenStore_UnknownToken(t *testing.T) {
	store, err := NewTokenStore()
	if err != nil {
		t.Fatalf("NewTokenStore: %v", err)
	}

	_, _, err = store.Resolve("pv_00000000000000000000000000")
	if !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("Resolve unknown token = %v, want ErrRecordNotFound", err)
	}
}

func TestTokenStore_ConcurrentTokenize(t *testing.T) {
	store, err := NewTokenStore()
	if err != nil {
		t.Fatalf("NewTokenStore: %v", err)
	}

	const workers = 16
	tokens := make([]string, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Half the workers share one value; the rest are distinct.
			value := "contended"
			if i%2 == 1 {
				value = fmt.Sprintf("distinct-%d", i)
			}
			tok, err := store.Tokenize(value, "NAME")
			if err != nil {
				t.Errorf("Tokenize: %v", err)
				return
			}
			tokens[i] = tok
		}(i)
	}
	wg.Wait()

	shared := tokens[0]
	for i := 2; i < workers; i += 2 {
		if tokens[i] != shared {
			t.Errorf("worker %d got %q for the shared value, want %q", i, tokens[i], shared)
		}
	}

	value, _, err := store.Resolve(shared)
	if err != nil {
		t.Fatalf("Resolve shared token: %v", err)
	}
	if value != "contended" {
		t.Errorf("shared token resolves to %q", value)
	}
}
