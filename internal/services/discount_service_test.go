package services

import (
	"testing"
	"time"

	"pickupapp/internal/models"
	"pickupapp/internal/utils"
)

func TestDiscountValidation(t *testing.T) {
	f := newFixture(t)
	now := time.Now().UTC()

	seed := []*models.Discount{
		{Code: "summer10", Amount: 10, IsPercent: true, IsActive: true, StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour)},
		{Code: "EXPIRED", Amount: 5, IsActive: true, StartDate: now.Add(-48 * time.Hour), EndDate: now.Add(-24 * time.Hour)},
		{Code: "OFF", Amount: 5, IsActive: false, StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour)},
	}
	for _, d := range seed {
		if err := f.discountSvc.Create(f.ctx, d); err != nil {
			t.Fatalf("Create(%s): %v", d.Code, err)
		}
	}

	got, err := f.discountSvc.Validate(f.ctx, " Summer10 ")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got.Code != "SUMMER10" || !got.IsPercent {
		t.Fatalf("discount = %+v", got)
	}

	for _, code := range []string{"EXPIRED", "off", "missing", ""} {
		_, err := f.discountSvc.Validate(f.ctx, code)
		wantKind(t, err, utils.ErrNotFound)
		if utils.ErrorMessage(err) != utils.ErrMsgInvalidDiscountCode {
			t.Fatalf("%q: message = %q", code, utils.ErrorMessage(err))
		}
	}

	active, err := f.discountSvc.Active(f.ctx)
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if len(active) != 1 || active[0].Code != "SUMMER10" {
		t.Fatalf("active = %+v", active)
	}

	err = f.discountSvc.Create(f.ctx, &models.Discount{Code: "SUMMER10", StartDate: now, EndDate: now.Add(time.Hour)})
	wantKind(t, err, utils.ErrConflict)
}
