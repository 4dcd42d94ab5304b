package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/unimatric/admissions/core"
	"github.com/unimatric/admissions/core/user"
)

// addUser updates or creates an active user.User
func (cli *commandLine) addUser(id, role, name, email, gender, pwd string) error {
	ctx := context.Background()
	id = core.CleanString(id, true /* lower */)
	email = core.CleanString(email, true /* lower */)
	now := time.Now().UTC()

	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{ID: id})
	exists := err == nil
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			return err
		}
		usr = user.User{ID: id, CreatedAt: now}
	}

	usr.Role = role
	usr.FullName = core.CleanString(name)
	usr.Email = email
	usr.Gender = core.CleanString(gender, true /* lower */)
	usr.IsActive = true
	usr.UpdatedAt = now
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}

	if exists {
		_, err = cli.usrRepo.UpdateUser(ctx, usr)
	} else {
		_, err = cli.usrRepo.CreateUser(ctx, usr)
	}
	return err
}
