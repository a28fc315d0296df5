package validators

import (
	"encoding/json"
	"fmt"

	"pickupapp/internal/utils"
)

type RegisterUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,not_blank,max=100"`
	Phone    string `json:"phone" validate:"required,phone_number"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

type RegisterDriverRequest struct {
	Email         string `json:"email" validate:"required,email"`
	FullName      string `json:"full_name" validate:"required,not_blank,max=100"`
	Phone         string `json:"phone" validate:"required,phone_number"`
	CarType       string `json:"car_type" validate:"required,not_blank,max=50"`
	LicenseNumber string `json:"license_number" validate:"required,not_blank,max=50"`
	WorkingArea   string `json:"working_area" validate:"required,not_blank,max=100"`
	Password      string `json:"password" validate:"required,min=6,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type PortfolioRequest struct {
	FullName        string     `json:"full_name" validate:"required,not_blank,max=100"`
	Age             int        `json:"age" validate:"gte=18,lte=100"`
	CarModel        string     `json:"car_model" validate:"required,not_blank,max=100"`
	CarYear         int        `json:"car_year" validate:"gte=1950,lte=2100"`
	CarColor        string     `json:"car_color" validate:"max=50"`
	ExperienceYears int        `json:"experience_years" validate:"gte=0,lte=80"`
	Bio             string     `json:"bio" validate:"max=2000"`
	Languages       StringList `json:"languages" validate:"max=20"`
	Certifications  StringList `json:"certifications" validate:"max=20"`
	ProfileImage    string     `json:"profile_image"`
}

type AvailabilityRequest struct {
	WorkingHours map[string]string `json:"working_hours" validate:"required"`
	Locations    []string          `json:"locations" validate:"required,min=1,dive,not_blank"`
	CarTypes     []string          `json:"car_types" validate:"required,min=1,dive,not_blank"`
}

// StringList accepts either a JSON array of strings or a single comma-separated
// string.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = StringList{}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		out := make(StringList, 0, len(list))
		for _, item := range list {
			out = append(out, utils.SplitAndTrim(item)...)
		}
		*s = out
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return fmt.Errorf("expected a string or an array of strings")
	}
	*s = utils.SplitAndTrim(joined)
	return nil
}
