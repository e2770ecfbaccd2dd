package document

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/smkpelita/backend/core"
	"github.com/smkpelita/backend/core/rbac"
	"github.com/smkpelita/backend/core/user"
)

// UserRepository persists users in the document store. It works against
// core.DocStore so the in-memory store backs it in tests unchanged.
type UserRepository struct {
	store core.DocStore
}

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository(store core.DocStore) *UserRepository {
	return &UserRepository{store: store}
}

func (repo *UserRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...user.User) error {
	existing, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil
		}
		return err
	}
	for _, excluded := range excludedUsers {
		if excluded.ID == existing.ID {
			return nil
		}
	}
	return user.ErrEmailExists
}

func (repo *UserRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	doc := map[string]interface{}{
		"displayName":  usr.Name,
		"email":        usr.Email,
		"role":         usr.Role.String(),
		"isActive":     usr.IsActive,
		"passwordHash": usr.PasswordHash,
	}
	if usr.PhotoURL != "" {
		doc["photoURL"] = usr.PhotoURL
	}
	id, err := repo.store.Create(ctx, core.UsersCollection, doc)
	if err != nil {
		return user.User{}, err
	}
	return repo.GetUserByID(ctx, id)
}

func (repo *UserRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	var users []user.User
	ord := &core.Ordering{Field: "createdAt", Descending: true}
	if err := repo.store.List(ctx, core.UsersCollection, ord, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (repo *UserRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	var usr user.User
	if err := repo.store.Get(ctx, core.UsersCollection, id, &usr); err != nil {
		if errors.Is(err, core.ErrDocumentNotFound) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return usr, nil
}

func (repo *UserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	users, err := repo.QueryAllUsers(ctx)
	if err != nil {
		return user.User{}, err
	}
	for _, usr := range users {
		if usr.Email == email {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

// UpdateUser merges the set fields of usr into the stored document. Zero
// values mean "leave alone"; activation rides the explicit isActive pointer.
func (repo *UserRepository) UpdateUser(ctx context.Context, usr user.User, isActive *bool) (user.User, error) {
	patch := map[string]interface{}{
		"updatedAt": time.Now().UTC(),
	}
	if usr.Name != "" {
		patch["displayName"] = usr.Name
	}
	if usr.Email != "" {
		patch["email"] = usr.Email
	}
	if usr.PhotoURL != "" {
		patch["photoURL"] = usr.PhotoURL
	}
	if len(usr.PasswordHash) > 0 {
		patch["passwordHash"] = usr.PasswordHash
	}
	if !usr.LastLogin.IsZero() {
		patch["lastLogin"] = usr.LastLogin
	}
	if isActive != nil {
		patch["isActive"] = *isActive
	}

	if err := repo.store.Merge(ctx, core.UsersCollection, usr.ID, patch); err != nil {
		return user.User{}, err
	}
	return repo.GetUserByID(ctx, usr.ID)
}

func (repo *UserRepository) UpdateUserRole(ctx context.Context, id string, role rbac.Role) (user.User, error) {
	patch := map[string]interface{}{
		"role":      role.String(),
		"updatedAt": time.Now().UTC(),
	}
	if err := repo.store.Merge(ctx, core.UsersCollection, id, patch); err != nil {
		return user.User{}, err
	}
	return repo.GetUserByID(ctx, id)
}

func (repo *UserRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		if err := repo.store.Delete(ctx, core.UsersCollection, id); err != nil {
			return err
		}
	}
	return nil
}

func (repo *UserRepository) CountUsers(ctx context.Context) (int, error) {
	users, err := repo.QueryAllUsers(ctx)
	if err != nil {
		return 0, err
	}
	return len(users), nil
}
