package content

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/smkpelita/backend/core"
)

// Application statuses.
const (
	StatusPending  = "pending"
	StatusReviewed = "reviewed"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

var ApplicationStatuses = []string{StatusPending, StatusReviewed, StatusAccepted, StatusRejected}

// Application is an admission application. Status only moves through the
// explicit status-change action; the general edit path never touches it.
type Application struct {
	ID              string    `json:"id" mapstructure:"id"`
	FirstName       string    `json:"firstName" mapstructure:"firstName"`
	LastName        string    `json:"lastName" mapstructure:"lastName"`
	Email           string    `json:"email" mapstructure:"email"`
	PhoneNumber     string    `json:"phoneNumber" mapstructure:"phoneNumber"`
	ProgramID       string    `json:"programId" mapstructure:"programId"`
	Status          string    `json:"status" mapstructure:"status"`
	ApplicationDate time.Time `json:"applicationDate" mapstructure:"applicationDate"` // store clock
}

// NewApplication is the public admission form.
type NewApplication struct {
	FirstName   string `json:"firstName" validate:"required,min=2"`
	LastName    string `json:"lastName" validate:"required,min=2"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" validate:"required,min=10"`
	ProgramID   string `json:"programId" validate:"required"`
}

func (f *NewApplication) Validate(validate *validator.Validate) error {
	f.FirstName = core.CleanString(f.FirstName)
	f.LastName = core.CleanString(f.LastName)
	f.Email = core.CleanString(f.Email, true /* lower */)
	return validate.Struct(f)
}

func (f *NewApplication) Payload() map[string]interface{} {
	return map[string]interface{}{
		"firstName":   f.FirstName,
		"lastName":    f.LastName,
		"email":       f.Email,
		"phoneNumber": f.PhoneNumber,
		"programId":   f.ProgramID,
		"status":      StatusPending,
	}
}

// ChangeApplicationStatus is the explicit status-change action.
type ChangeApplicationStatus struct {
	Status string `json:"status" validate:"required,appstatus"`
}

func (f *ChangeApplicationStatus) Validate(validate *validator.Validate) error {
	f.Status = core.CleanString(f.Status, true /* lower */)
	return validate.Struct(f)
}

func (f *ChangeApplicationStatus) Payload() map[string]interface{} {
	return map[string]interface{}{"status": f.Status}
}
