package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/smkpelita/backend/core"
	"github.com/smkpelita/backend/core/rbac"
)

// User is an authenticated actor of the admin panel.
type User struct {
	ID           string    `json:"id" mapstructure:"id"`
	Name         string    `json:"displayName" mapstructure:"displayName"`
	Email        string    `json:"email" mapstructure:"email"`
	PhotoURL     string    `json:"photoURL,omitempty" mapstructure:"photoURL"`
	Role         rbac.Role `json:"role" mapstructure:"role"`
	IsActive     bool      `json:"isActive" mapstructure:"isActive"`
	PasswordHash []byte    `json:"-" mapstructure:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt" mapstructure:"createdAt"` // UTC, store clock
	UpdatedAt    time.Time `json:"updatedAt" mapstructure:"updatedAt"` // UTC
	LastLogin    time.Time `json:"lastLogin" mapstructure:"lastLogin"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool {
	return u.Role.IsAdmin()
}

// Actor is the user's shape for the permission evaluator.
func (u *User) Actor() rbac.Actor {
	return rbac.Actor{ID: u.ID, Role: u.Role}
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name            string `json:"displayName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	Role            string `json:"role" validate:"omitempty,role"`
}

func (nu *NewUser) Validate(validate *validator.Validate, svc ServiceInterface) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckEmailUniqueness(nu.Email)
}

// UpdateUser defines what information may be provided to modify an existing User.
// Absent fields are left untouched.
type UpdateUser struct {
	Name            string `json:"displayName"`
	Email           string `json:"email" validate:"omitempty,email"`
	PhotoURL        string `json:"photoURL" validate:"omitempty,url"`
	IsActive        *bool  `json:"isActive"`
	Password        string `json:"password" validate:"omitempty"`
	PasswordConfirm string `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

func (uu *UpdateUser) Validate(origUsr User, validate *validator.Validate, svc ServiceInterface) error {
	uu.Name = core.CleanString(uu.Name)

	email := core.CleanString(uu.Email, true /* lower */)
	uu.Email = email

	if err := validate.Struct(uu); err != nil {
		return err
	}
	if email != "" && email != origUsr.Email {
		return svc.CheckEmailUniqueness(email, origUsr)
	}
	return nil
}

// ChangeUserRole is the explicit role-change action; roles never ride a
// general edit.
type ChangeUserRole struct {
	Role string `json:"role" validate:"required,role"`
}

func (cr *ChangeUserRole) Validate(validate *validator.Validate) error {
	cr.Role = core.CleanString(cr.Role)
	return validate.Struct(cr)
}
