package subscriptions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
	"github.com/fitcoachhq/fitcoach-backend/pkg/enums"
)

func setupSubscriptionsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	plans := `
CREATE TABLE IF NOT EXISTS subscription_plans (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL,
  duration_days INTEGER NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  features TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	subs := `
CREATE TABLE IF NOT EXISTS user_subscriptions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  plan_id TEXT NOT NULL,
  status TEXT NOT NULL,
  start_date DATETIME NOT NULL,
  end_date DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	for _, ddl := range []string{plans, subs} {
		if err := conn.Exec(ddl).Error; err != nil {
			t.Fatalf("create table: %v", err)
		}
	}
	return conn
}

func seedPlan(t *testing.T, conn *gorm.DB) models.SubscriptionPlan {
	t.Helper()
	plan := *testPlan()
	if err := conn.Create(&plan).Error; err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	return plan
}

func seedSub(t *testing.T, conn *gorm.DB, userID, planID uuid.UUID, status enums.SubscriptionStatus, end time.Time) models.UserSubscription {
	t.Helper()
	record := models.UserSubscription{
		ID:        uuid.New(),
		UserID:    userID,
		PlanID:    planID,
		Status:    status,
		StartDate: end.AddDate(0, 0, -30),
		EndDate:   end,
	}
	if err := conn.Create(&record).Error; err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
	return record
}

func countByStatus(t *testing.T, conn *gorm.DB, userID uuid.UUID, status enums.SubscriptionStatus) int64 {
	t.Helper()
	var count int64
	err := conn.Model(&models.UserSubscription{}).
		Where("user_id = ? AND status = ?", userID, status).
		Count(&count).Error
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	return count
}

func TestCancelActiveThenCreateLeavesOneActiveRow(t *testing.T) {
	ctx := context.Background()
	conn := setupSubscriptionsTestDB(t)
	repo := NewRepository(conn)
	plan := seedPlan(t, conn)

	now := time.Now().UTC()
	userID := uuid.New()
	otherID := uuid.New()
	old := seedSub(t, conn, userID, plan.ID, enums.SubscriptionStatusActive, now.AddDate(0, 0, 10))
	seedSub(t, conn, userID, plan.ID, enums.SubscriptionStatusExpired, now.AddDate(0, 0, -40))
	seedSub(t, conn, otherID, plan.ID, enums.SubscriptionStatusActive, now.AddDate(0, 0, 10))

	affected, err := repo.CancelActive(ctx, userID, now)
	if err != nil {
		t.Fatalf("cancel active: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 cancelled row, got %d", affected)
	}

	replacement := models.UserSubscription{
		ID:        uuid.New(),
		UserID:    userID,
		PlanID:    plan.ID,
		Status:    enums.SubscriptionStatusActive,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, plan.DurationDays),
	}
	if err := repo.Create(ctx, &replacement); err != nil {
		t.Fatalf("create replacement: %v", err)
	}

	if got := countByStatus(t, conn, userID, enums.SubscriptionStatusActive); got != 1 {
		t.Fatalf("expected exactly 1 active row, got %d", got)
	}
	var active models.UserSubscription
	if err := conn.First(&active, "user_id = ? AND status = ?", userID, enums.SubscriptionStatusActive).Error; err != nil {
		t.Fatalf("load active: %v", err)
	}
	if active.ID != replacement.ID {
		t.Fatal("surviving active row is not the replacement")
	}

	var displaced models.UserSubscription
	if err := conn.First(&displaced, "id = ?", old.ID).Error; err != nil {
		t.Fatalf("load displaced: %v", err)
	}
	if displaced.Status != enums.SubscriptionStatusCancelled {
		t.Fatalf("displaced row should be cancelled, got %s", displaced.Status)
	}
	if got := countByStatus(t, conn, otherID, enums.SubscriptionStatusActive); got != 1 {
		t.Fatalf("other user's subscription must be untouched, got %d active", got)
	}
}

func TestExpireLapsedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	conn := setupSubscriptionsTestDB(t)
	repo := NewRepository(conn)
	plan := seedPlan(t, conn)

	now := time.Now().UTC()
	lapsed := seedSub(t, conn, uuid.New(), plan.ID, enums.SubscriptionStatusActive, now.AddDate(0, 0, -1))
	current := seedSub(t, conn, uuid.New(), plan.ID, enums.SubscriptionStatusActive, now.AddDate(0, 0, 5))
	cancelled := seedSub(t, conn, uuid.New(), plan.ID, enums.SubscriptionStatusCancelled, now.AddDate(0, 0, -1))

	affected, err := repo.ExpireLapsed(ctx, now)
	if err != nil {
		t.Fatalf("expire lapsed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 expired row, got %d", affected)
	}

	statuses := map[uuid.UUID]enums.SubscriptionStatus{
		lapsed.ID:    enums.SubscriptionStatusExpired,
		current.ID:   enums.SubscriptionStatusActive,
		cancelled.ID: enums.SubscriptionStatusCancelled,
	}
	for id, want := range statuses {
		var record models.UserSubscription
		if err := conn.First(&record, "id = ?", id).Error; err != nil {
			t.Fatalf("load %s: %v", id, err)
		}
		if record.Status != want {
			t.Fatalf("row %s: expected %s, got %s", id, want, record.Status)
		}
	}

	affected, err = repo.ExpireLapsed(ctx, now)
	if err != nil {
		t.Fatalf("second expire lapsed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("rerun must be a no-op, got %d rows", affected)
	}
}

func TestListExpiringActiveWindow(t *testing.T) {
	ctx := context.Background()
	conn := setupSubscriptionsTestDB(t)
	repo := NewRepository(conn)
	plan := seedPlan(t, conn)

	from := time.Now().UTC().Truncate(time.Hour)
	to := from.AddDate(0, 0, 3)
	inWindow := seedSub(t, conn, uuid.New(), plan.ID, enums.SubscriptionStatusActive, from.AddDate(0, 0, 1))
	seedSub(t, conn, uuid.New(), plan.ID, enums.SubscriptionStatusActive, to)
	seedSub(t, conn, uuid.New(), plan.ID, enums.SubscriptionStatusActive, from.Add(-time.Hour))
	seedSub(t, conn, uuid.New(), plan.ID, enums.SubscriptionStatusCancelled, from.AddDate(0, 0, 1))

	subs, err := repo.ListExpiringActive(ctx, from, to)
	if err != nil {
		t.Fatalf("list expiring: %v", err)
	}
	if len(subs) != 1 || subs[0].ID != inWindow.ID {
		t.Fatalf("expected only the in-window active row, got %d rows", len(subs))
	}
	if subs[0].Plan == nil || subs[0].Plan.ID != plan.ID {
		t.Fatal("expected the plan to be preloaded")
	}
}

func TestUpdateStatusReportsMissingRow(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupSubscriptionsTestDB(t))

	found, err := repo.UpdateStatus(ctx, uuid.New(), enums.SubscriptionStatusCancelled)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if found {
		t.Fatal("expected no row to match")
	}
}
