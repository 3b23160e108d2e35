package promocodes

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
	"github.com/fitcoachhq/fitcoach-backend/pkg/enums"
)

func setupPromoTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	ddl := `
CREATE TABLE IF NOT EXISTS promo_codes (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  discount_type TEXT NOT NULL,
  discount_value NUMERIC NOT NULL,
  min_purchase_amount NUMERIC,
  max_uses INTEGER,
  current_uses INTEGER NOT NULL DEFAULT 0,
  expires_at DATETIME,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	if err := conn.Exec(ddl).Error; err != nil {
		t.Fatalf("create table: %v", err)
	}
	return conn
}

func seedPromo(t *testing.T, repo Repository, mutate func(*models.PromoCode)) models.PromoCode {
	t.Helper()
	promo := models.PromoCode{
		ID:            uuid.New(),
		Code:          "SAVE10",
		DiscountType:  enums.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(10),
		IsActive:      true,
	}
	if mutate != nil {
		mutate(&promo)
	}
	if err := repo.Create(context.Background(), &promo); err != nil {
		t.Fatalf("seed promo: %v", err)
	}
	return promo
}

func loadPromo(t *testing.T, conn *gorm.DB, id uuid.UUID) models.PromoCode {
	t.Helper()
	var promo models.PromoCode
	if err := conn.First(&promo, "id = ?", id).Error; err != nil {
		t.Fatalf("load promo: %v", err)
	}
	return promo
}

func TestConsumeUseGuardStopsAtMaxUses(t *testing.T) {
	ctx := context.Background()
	conn := setupPromoTestDB(t)
	repo := NewRepository(conn)
	max := 2
	promo := seedPromo(t, repo, func(p *models.PromoCode) { p.MaxUses = &max })

	for i := 0; i < max; i++ {
		ok, err := repo.ConsumeUse(ctx, promo.ID)
		if err != nil {
			t.Fatalf("consume %d: %v", i+1, err)
		}
		if !ok {
			t.Fatalf("consume %d should pass the guard", i+1)
		}
	}

	ok, err := repo.ConsumeUse(ctx, promo.ID)
	if err != nil {
		t.Fatalf("consume past limit: %v", err)
	}
	if ok {
		t.Fatal("guard must reject the redemption past max_uses")
	}
	if got := loadPromo(t, conn, promo.ID).CurrentUses; got != max {
		t.Fatalf("current_uses must stop at %d, got %d", max, got)
	}
}

func TestConsumeUseUnlimitedWhenMaxUsesUnset(t *testing.T) {
	ctx := context.Background()
	conn := setupPromoTestDB(t)
	repo := NewRepository(conn)
	promo := seedPromo(t, repo, nil)

	for i := 0; i < 3; i++ {
		ok, err := repo.ConsumeUse(ctx, promo.ID)
		if err != nil || !ok {
			t.Fatalf("consume %d: ok=%v err=%v", i+1, ok, err)
		}
	}
	if got := loadPromo(t, conn, promo.ID).CurrentUses; got != 3 {
		t.Fatalf("expected 3 uses recorded, got %d", got)
	}
}

func TestConsumeUseRejectsInactiveCode(t *testing.T) {
	ctx := context.Background()
	conn := setupPromoTestDB(t)
	repo := NewRepository(conn)
	promo := seedPromo(t, repo, nil)

	// Deactivate directly: a zero-valued bool with a column default would
	// be dropped from the insert.
	err := conn.Model(&models.PromoCode{}).
		Where("id = ?", promo.ID).
		UpdateColumn("is_active", false).Error
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	ok, err := repo.ConsumeUse(ctx, promo.ID)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if ok {
		t.Fatal("inactive code must not be consumable")
	}
	if got := loadPromo(t, conn, promo.ID).CurrentUses; got != 0 {
		t.Fatalf("current_uses must stay 0, got %d", got)
	}
}

func TestFindByCodeNormalizesLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupPromoTestDB(t))
	promo := seedPromo(t, repo, func(p *models.PromoCode) { p.Code = "  joincoach10 " })

	if promo.Code != "JOINCOACH10" {
		t.Fatalf("create must canonicalize the code, got %q", promo.Code)
	}

	found, err := repo.FindByCode(ctx, " JoinCoach10  ")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found == nil || found.ID != promo.ID {
		t.Fatal("normalized lookup should find the stored code")
	}

	missing, err := repo.FindByCode(ctx, "NOPE")
	if err != nil {
		t.Fatalf("find missing: %v", err)
	}
	if missing != nil {
		t.Fatal("unknown code must return nil without error")
	}
}
