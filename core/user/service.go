package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/smkpelita/backend/core"
	"github.com/smkpelita/backend/core/rbac"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...User) error
		CreateUser(ctx context.Context, usr User) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		UpdateUser(ctx context.Context, usr User, isActive *bool) (User, error)
		UpdateUserRole(ctx context.Context, id string, role rbac.Role) (User, error)
		DeleteUsersByID(ctx context.Context, ids ...string) error
		CountUsers(ctx context.Context) (int, error)
	}

	ServiceInterface interface {
		CheckEmailUniqueness(email string, exclUsers ...User) error
		Create(nu NewUser) (User, error)
		Register(nu NewUser) (User, error)
		QueryAll() ([]User, error)
		GetByID(id string) (User, error)
		GetByEmail(email string) (User, error)
		Update(id string, uu UpdateUser) (User, error)
		ChangeRole(id string, role rbac.Role) (User, error)
		SetLastLogin(usr User) (User, error)
		Delete(ids ...string) error
	}

	Service struct {
		repo Repository
		mail core.EmailService
		conf *core.Config
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{
		repo: repo,
		mail: mailSvc,
		conf: conf,
	}
}

func (svc *Service) CheckEmailUniqueness(email string, exclUsers ...User) error {
	if err := svc.repo.CheckEmailUniqueness(context.Background(), email, exclUsers...); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

// Create adds a user with the role given in nu; unknown or empty role labels
// resolve to the minimal role.
func (svc *Service) Create(nu NewUser) (User, error) {
	usr := User{
		Name:     nu.Name,
		Email:    nu.Email,
		Role:     rbac.ParseRole(nu.Role),
		IsActive: true,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(context.Background(), usr)
}

// Register is public signup. The first registrant becomes SuperAdmin so the
// system always has at least one maximal-role actor; everyone after that
// starts at the minimal role and is promoted by an admin.
func (svc *Service) Register(nu NewUser) (User, error) {
	count, err := svc.repo.CountUsers(context.Background())
	if err != nil {
		return User{}, err
	}
	role := rbac.RoleUser
	if count == 0 {
		role = rbac.RoleSuperAdmin
	}
	nu.Role = role.String()
	usr, err := svc.Create(nu)
	if err != nil {
		return User{}, err
	}

	svc.mail.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: fmt.Sprintf("Welcome to %s", svc.conf.AppName),
		BodyStr: fmt.Sprintf("Hi %s,\n\nYour account has been created.", usr.Name),
	})
	return usr, nil
}

func (svc *Service) QueryAll() ([]User, error) {
	return svc.repo.QueryAllUsers(context.Background())
}

func (svc *Service) GetByID(id string) (User, error) {
	return svc.repo.GetUserByID(context.Background(), id)
}

func (svc *Service) GetByEmail(email string) (User, error) {
	return svc.repo.GetUserByEmail(context.Background(), core.CleanString(email, true /* lower */))
}

func (svc *Service) Update(id string, uu UpdateUser) (User, error) {
	usr := User{
		ID:    id,
		Name:  uu.Name,
		Email: uu.Email,
	}
	if uu.PhotoURL != "" {
		usr.PhotoURL = uu.PhotoURL
	}
	if uu.Password != "" {
		if err := usr.SetPassword(uu.Password); err != nil {
			return User{}, err
		}
	}
	return svc.repo.UpdateUser(context.Background(), usr, uu.IsActive)
}

// ChangeRole persists an explicit role change. Permission checks live with
// the caller; this only writes.
func (svc *Service) ChangeRole(id string, role rbac.Role) (User, error) {
	return svc.repo.UpdateUserRole(context.Background(), id, role)
}

func (svc *Service) SetLastLogin(usr User) (User, error) {
	return svc.repo.UpdateUser(context.Background(), User{ID: usr.ID, LastLogin: nowFunc()}, nil)
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteUsersByID(context.Background(), ids...)
}
