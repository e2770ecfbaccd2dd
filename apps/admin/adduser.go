package main

import (
	"context"

	"github.com/smkpelita/backend/core"
	"github.com/smkpelita/backend/core/rbac"
	"github.com/smkpelita/backend/core/user"
)

// addUser updates or creates an active user with the given role.
func (cli *commandLine) addUser(email, name, role, pwd string) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)
	name = core.CleanString(name)

	usr, err := cli.usrRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		usr = user.User{Name: name, Email: email, Role: rbac.ParseRole(role), IsActive: true}
		if err = usr.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.usrRepo.CreateUser(ctx, usr)
		return err
	}

	if err = usr.SetPassword(pwd); err != nil {
		return err
	}
	active := true
	if _, err = cli.usrRepo.UpdateUser(ctx, user.User{
		ID:           usr.ID,
		Name:         name,
		PasswordHash: usr.PasswordHash,
	}, &active); err != nil {
		return err
	}
	_, err = cli.usrRepo.UpdateUserRole(ctx, usr.ID, rbac.ParseRole(role))
	return err
}
