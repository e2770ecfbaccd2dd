package user

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smkpelita/backend/core"
	"github.com/smkpelita/backend/core/rbac"
)

// fakeRepo is an in-memory Repository for service tests.
type fakeRepo struct {
	users  map[string]User
	nextID int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[string]User)}
}

func (r *fakeRepo) CheckEmailUniqueness(_ context.Context, email string, excluded ...User) error {
	for _, usr := range r.users {
		if usr.Email != email {
			continue
		}
		skip := false
		for _, excl := range excluded {
			if excl.ID == usr.ID {
				skip = true
			}
		}
		if !skip {
			return ErrEmailExists
		}
	}
	return nil
}

func (r *fakeRepo) CreateUser(_ context.Context, usr User) (User, error) {
	r.nextID++
	usr.ID = fmt.Sprintf("users:%d", r.nextID)
	usr.CreatedAt = nowFunc()
	r.users[usr.ID] = usr
	return usr, nil
}

func (r *fakeRepo) QueryAllUsers(_ context.Context) ([]User, error) {
	out := make([]User, 0, len(r.users))
	for _, usr := range r.users {
		out = append(out, usr)
	}
	return out, nil
}

func (r *fakeRepo) GetUserByID(_ context.Context, id string) (User, error) {
	usr, ok := r.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return usr, nil
}

func (r *fakeRepo) GetUserByEmail(_ context.Context, email string) (User, error) {
	for _, usr := range r.users {
		if usr.Email == email {
			return usr, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *fakeRepo) UpdateUser(_ context.Context, usr User, isActive *bool) (User, error) {
	stored, ok := r.users[usr.ID]
	if !ok {
		return User{}, ErrNotFound
	}
	if usr.Name != "" {
		stored.Name = usr.Name
	}
	if usr.Email != "" {
		stored.Email = usr.Email
	}
	if len(usr.PasswordHash) > 0 {
		stored.PasswordHash = usr.PasswordHash
	}
	if !usr.LastLogin.IsZero() {
		stored.LastLogin = usr.LastLogin
	}
	if isActive != nil {
		stored.IsActive = *isActive
	}
	stored.UpdatedAt = nowFunc()
	r.users[stored.ID] = stored
	return stored, nil
}

func (r *fakeRepo) UpdateUserRole(_ context.Context, id string, role rbac.Role) (User, error) {
	stored, ok := r.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	stored.Role = role
	r.users[id] = stored
	return stored, nil
}

func (r *fakeRepo) DeleteUsersByID(_ context.Context, ids ...string) error {
	for _, id := range ids {
		delete(r.users, id)
	}
	return nil
}

func (r *fakeRepo) CountUsers(_ context.Context) (int, error) {
	return len(r.users), nil
}

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	conf := &core.Config{AppName: "Pelita"}
	return NewService(repo, nopMail{}, conf), repo
}

type nopMail struct{}

func (nopMail) SendMessages(...*core.EmailMessage) {}

func TestRegisterFirstUserBecomesSuperAdmin(t *testing.T) {
	svc, _ := newTestService()

	first, err := svc.Register(NewUser{
		Name: "Budi", Email: "budi@example.com",
		Password: "Secret123", PasswordConfirm: "Secret123",
		Role: "Admin", // carries no weight on signup
	})
	require.NoError(t, err)
	assert.Equal(t, rbac.RoleSuperAdmin, first.Role)
	assert.True(t, first.IsActive)

	second, err := svc.Register(NewUser{
		Name: "Siti", Email: "siti@example.com",
		Password: "Secret123", PasswordConfirm: "Secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, rbac.RoleUser, second.Role)
}

func TestCreateResolvesRoleAliases(t *testing.T) {
	svc, _ := newTestService()

	for alias, want := range map[string]rbac.Role{
		"siswa":       rbac.RoleStudent,
		"guru":        rbac.RoleTeacher,
		"super admin": rbac.RoleSuperAdmin,
		"garbled":     rbac.RoleUser,
		"":            rbac.RoleUser,
	} {
		usr, err := svc.Create(NewUser{
			Name: "X", Email: alias + "@example.com", Password: "Secret123", Role: alias,
		})
		require.NoError(t, err, alias)
		assert.Equal(t, want, usr.Role, alias)
	}
}

func TestCreateHashesPassword(t *testing.T) {
	svc, _ := newTestService()

	usr, err := svc.Create(NewUser{Name: "Budi", Email: "budi@example.com", Password: "Secret123"})
	require.NoError(t, err)
	assert.NoError(t, usr.CheckPassword("Secret123"))
	assert.Error(t, usr.CheckPassword("WrongPass1"))
}

func TestChangeRolePersistsDemotionToMinimal(t *testing.T) {
	svc, repo := newTestService()
	usr, err := svc.Create(NewUser{Name: "Budi", Email: "budi@example.com", Password: "Secret123", Role: "Admin"})
	require.NoError(t, err)

	demoted, err := svc.ChangeRole(usr.ID, rbac.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, rbac.RoleUser, demoted.Role)
	assert.Equal(t, rbac.RoleUser, repo.users[usr.ID].Role)
}

func TestCheckEmailUniqueness(t *testing.T) {
	svc, _ := newTestService()
	usr, err := svc.Create(NewUser{Name: "Budi", Email: "budi@example.com", Password: "Secret123"})
	require.NoError(t, err)

	err = svc.CheckEmailUniqueness("budi@example.com")
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)

	assert.NoError(t, svc.CheckEmailUniqueness("budi@example.com", usr))
	assert.NoError(t, svc.CheckEmailUniqueness("other@example.com"))
}

func newUserValidator(t *testing.T) (*validator.Validate, ServiceInterface) {
	t.Helper()
	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)

	svc, _ := newTestService()
	return validate, svc
}

func TestNewUserPasswordPolicy(t *testing.T) {
	validate, svc := newUserValidator(t)

	base := func() NewUser {
		return NewUser{Name: "Budi", Email: "budi@example.com"}
	}

	tests := []struct {
		desc    string
		pwd     string
		wantErr bool
	}{
		{"ok", "Secret123", false},
		{"too short", "Ab1derf", true},
		{"whitespace", "Secret 123", true},
		{"all numeric", "1234567890", true},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			nu := base()
			nu.Password = tt.pwd
			nu.PasswordConfirm = tt.pwd
			err := nu.Validate(validate, svc)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewUserValidateNormalizes(t *testing.T) {
	validate, svc := newUserValidator(t)

	nu := NewUser{
		Name:            "  Budi Santoso ",
		Email:           " Budi@Example.COM ",
		Password:        "Secret123",
		PasswordConfirm: "Secret123",
	}
	require.NoError(t, nu.Validate(validate, svc))
	assert.Equal(t, "Budi Santoso", nu.Name)
	assert.Equal(t, "budi@example.com", nu.Email)
}

func TestUpdateUserValidate(t *testing.T) {
	validate, svc := newUserValidator(t)
	orig := User{ID: "users:1", Email: "budi@example.com"}

	// password confirm must ride along
	uu := UpdateUser{Password: "Secret123"}
	assert.Error(t, uu.Validate(orig, validate, svc))

	uu = UpdateUser{Password: "Secret123", PasswordConfirm: "Secret123"}
	assert.NoError(t, uu.Validate(orig, validate, svc))

	// unchanged email skips the uniqueness check
	uu = UpdateUser{Email: "budi@example.com"}
	assert.NoError(t, uu.Validate(orig, validate, svc))
}

func TestChangeUserRoleValidate(t *testing.T) {
	validate, _ := newUserValidator(t)

	cr := ChangeUserRole{Role: "Teacher"}
	assert.NoError(t, cr.Validate(validate))

	cr = ChangeUserRole{Role: "Overlord"}
	assert.Error(t, cr.Validate(validate))

	cr = ChangeUserRole{}
	assert.Error(t, cr.Validate(validate))
}
