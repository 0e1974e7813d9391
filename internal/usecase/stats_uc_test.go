//go:build !integration

package usecase_test

import (
	"context"
	"testing"
	"time"

	"seriespay/internal/domain/model"
	"seriespay/internal/usecase"
)

func TestStatsUseCase(t *testing.T) {
	ctx := context.Background()
	purchases := NewMockPurchaseRepo()
	payouts := NewMockPayoutRecordRepo()

	ch := "ch_1"
	_ = purchases.Save(ctx, &model.Purchase{
		ID: "p-1", UserID: "u1", SeasonID: "s1", SeriesID: "sr1", CreatorID: "c1",
		CheckoutKey: "cs_1", ChargeID: &ch,
		Amount: 499, PlatformFee: 100, CreatorShare: 399,
		Status: model.PurchaseStatusCompleted, CreatedAt: time.Now().UTC(),
	})
	_ = payouts.Save(ctx, &model.PayoutRecord{
		ID: "rec-1", CreatorID: "c1", PurchaseID: "p-1", TransferID: "tr_1",
		Amount: 399, Status: model.PayoutStatusCompleted, CreatedAt: time.Now().UTC(),
	})
	_ = payouts.Save(ctx, &model.PayoutRecord{
		ID: "rec-2", CreatorID: "c1", PurchaseID: "p-2", TransferID: model.FailedTransferID("p-2"),
		Amount: 200, Status: model.PayoutStatusFailed, CreatedAt: time.Now().UTC(),
	})

	uc := usecase.NewStatsUseCase(purchases, payouts, newTestLogger())

	week, month, year, err := uc.Revenue(ctx)
	if err != nil {
		t.Fatalf("Revenue: %v", err)
	}
	if week != 499 || month != 499 || year != 499 {
		t.Errorf("unexpected revenue %d/%d/%d", week, month, year)
	}

	fees, err := uc.PlatformFees(ctx, "month")
	if err != nil {
		t.Fatalf("PlatformFees: %v", err)
	}
	if fees != 100 {
		t.Errorf("expected fees 100, got %d", fees)
	}

	// Failed payout records must not count toward the total.
	total, err := uc.PayoutTotal(ctx)
	if err != nil {
		t.Fatalf("PayoutTotal: %v", err)
	}
	if total != 399 {
		t.Errorf("expected payout total 399, got %d", total)
	}
}
