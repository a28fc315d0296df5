package validators

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestStringList_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  StringList
	}{
		{"array", `["English", " Thai "]`, StringList{"English", "Thai"}},
		{"comma separated", `"English, Thai,,French"`, StringList{"English", "Thai", "French"}},
		{"empty string", `""`, StringList{}},
		{"null", `null`, StringList{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got StringList
			if err := json.Unmarshal([]byte(tt.input), &got); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	var bad StringList
	if err := json.Unmarshal([]byte(`42`), &bad); err == nil {
		t.Error("expected error for a number")
	}
}

func TestValidateStruct_RateDriverRequest(t *testing.T) {
	tests := []struct {
		name      string
		req       RateDriverRequest
		wantField string
	}{
		{"valid", RateDriverRequest{BookingID: "507f1f77bcf86cd799439011", Rating: 5}, ""},
		{"zero rating", RateDriverRequest{BookingID: "507f1f77bcf86cd799439011", Rating: 0}, "rating"},
		{"rating above five", RateDriverRequest{BookingID: "507f1f77bcf86cd799439011", Rating: 6}, "rating"},
		{"bad booking id", RateDriverRequest{BookingID: "nope", Rating: 3}, "booking_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateStruct(&tt.req)
			if tt.wantField == "" {
				if len(errs) != 0 {
					t.Fatalf("expected no errors, got %v", errs)
				}
				return
			}
			if _, ok := errs.Details()[tt.wantField]; !ok {
				t.Errorf("expected error on %s, got %v", tt.wantField, errs)
			}
		})
	}
}

func TestValidateStruct_CreateTourRequest(t *testing.T) {
	departure := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	before := departure.Add(-time.Hour)

	req := CreateTourRequest{
		FromLocation:   "Chiang Mai",
		ToLocation:     "Pai",
		DepartureTime:  departure,
		ReturnTime:     &before,
		MaxCapacity:    4,
		PricePerPerson: 25,
	}
	if _, ok := ValidateStruct(&req).Details()["return_time"]; !ok {
		t.Error("expected return_time before departure to be rejected")
	}

	req.ReturnTime = nil
	req.MaxCapacity = 0
	if _, ok := ValidateStruct(&req).Details()["max_capacity"]; !ok {
		t.Error("expected zero max_capacity to be rejected")
	}

	req.MaxCapacity = 4
	req.FromLocation = "   "
	if _, ok := ValidateStruct(&req).Details()["from_location"]; !ok {
		t.Error("expected blank from_location to be rejected")
	}
}

func TestValidateStruct_RegisterUserRequest(t *testing.T) {
	req := RegisterUserRequest{
		Email:    "not-an-email",
		FullName: "Somchai",
		Phone:    "+66 81 234 5678",
		Password: "secret1",
	}
	details := ValidateStruct(&req).Details()
	if _, ok := details["email"]; !ok {
		t.Errorf("expected email error, got %v", details)
	}
	if _, ok := details["phone"]; ok {
		t.Errorf("phone should be valid, got %v", details)
	}
}
