package proptest

import (
	"context"
	"testing"

	"pawtrades/internal/auth"
	"pawtrades/internal/catalog"
	"pawtrades/internal/memory"

	"pgregory.net/rapid"
)

const (
	minItems         = 0
	maxItems         = 12
	typicalMinItems  = 1
	typicalMaxItems  = 8
	ownerEmail       = "owner@paws.test"
	defaultItemCount = 4
)

type Harness struct {
	T   *rapid.T
	Ctx context.Context
}

// StoreHarness wires a store and gate to an in-memory backend, the way the
// CLI wires them to the remote one.
type StoreHarness struct {
	Harness
	Backend  *memory.Backend
	Gate     *auth.Gate
	Store    *catalog.Store
	Password string
}

func (h *StoreHarness) SeedItems(minCount, maxCount int) []catalog.Item {
	items := itemsGen(minCount, maxCount).Draw(h.T, "seed")
	h.Backend.Seed(items...)
	return items
}

func (h *StoreHarness) MustLoad() {
	if err := h.Store.Load(h.Ctx); err != nil {
		h.T.Fatalf("load failed: %v", err)
	}
}

func (h *StoreHarness) MustLogin() {
	if err := h.Gate.Login(h.Ctx, auth.Credentials{Email: ownerEmail, Password: h.Password}); err != nil {
		h.T.Fatalf("login failed: %v", err)
	}
}

func RunWithStore(t *testing.T, fn func(h *StoreHarness)) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		password := passwordGen.Draw(rt, "password")
		mem := memory.New().WithAccount(ownerEmail, password)

		gate := auth.NewGate(mem)
		if err := gate.Start(ctx); err != nil {
			rt.Fatalf("gate start failed: %v", err)
		}
		defer gate.Close()

		fn(&StoreHarness{
			Harness:  Harness{T: rt, Ctx: ctx},
			Backend:  mem,
			Gate:     gate,
			Store:    catalog.NewStore(mem, gate),
			Password: password,
		})
	})
}

func RunBasic(t *testing.T, fn func(h *Harness)) {
	rapid.Check(t, func(rt *rapid.T) {
		fn(&Harness{T: rt, Ctx: context.Background()})
	})
}
