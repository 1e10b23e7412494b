package main

import (
	"fmt"
	"strings"

	"rental/internal/domain/model"
	infrarepo "rental/internal/infra/repository"
	"rental/internal/usecase"
	"rental/internal/validator"

	"github.com/spf13/cobra"
)

func newCreateUserCmd() *cobra.Command {
	var in usecase.CreateUserInput
	var role string

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a staff account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			in.Role = model.Role(strings.ToUpper(role))
			users := infrarepo.NewUserGormRepository(a.db)
			uc := usecase.NewAuthUsecase(users, validator.NewAuthValidator(users), a.cfg.JWTSecret, a.cfg.AccessTokenTTL, usecase.SystemClock{}, a.log)
			u, err := uc.CreateUser(cmd.Context(), in)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created user %d (%s, %s)\n", u.ID, u.Email, u.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "login email")
	cmd.Flags().StringVar(&in.DisplayName, "name", "", "name recorded on stock movements")
	cmd.Flags().StringVar(&in.Password, "password", "", "initial password")
	cmd.Flags().StringVar(&role, "role", string(model.RoleEmployee), "EMPLOYEE or ADMIN")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
