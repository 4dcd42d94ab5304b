package main

import (
	"context"
	"time"

	"github.com/unimatric/admissions/core"
	"github.com/unimatric/admissions/core/user"
)

func (cli *commandLine) resetPassword(idOrEmail, pwd string) error {
	ctx := context.Background()
	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{IDOrEmail: core.CleanString(idOrEmail, true /* lower */)})
	if err != nil {
		return err
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	usr.UpdatedAt = time.Now().UTC()
	if _, err := cli.usrRepo.UpdateUser(ctx, usr); err != nil {
		return err
	}
	return nil
}
