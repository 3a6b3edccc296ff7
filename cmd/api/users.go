package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/maintenance-orders/internal/httperr"
	"github.com/BruksfildServices01/maintenance-orders/internal/models"
	ucUser "github.com/BruksfildServices01/maintenance-orders/internal/usecase/user"
)

var userFlags struct {
	name        string
	email       string
	password    string
	role        string
	checkDomain bool
}

var equipmentFlags struct {
	name string
	area string
}

var createUserCmd = &cobra.Command{
	Use:     "create-user",
	Short:   "Create a manager or technician account",
	Example: `  api create-user --name "Tom" --email tom@plant.example --password s3cret --role technician`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB(db)

		u, err := ucUser.NewCreateUser(db).Execute(cmd.Context(), ucUser.CreateUserInput{
			Name:        userFlags.name,
			Email:       userFlags.email,
			Password:    userFlags.password,
			Role:        userFlags.role,
			CheckDomain: userFlags.checkDomain,
		})
		if err != nil {
			return cliError(err)
		}

		log.Info("user created", zap.Uint("id", u.ID), zap.String("email", u.Email), zap.String("role", u.Role))
		fmt.Fprintf(cmd.OutOrStdout(), "created %s %q (id %d)\n", u.Role, u.Email, u.ID)
		return nil
	},
}

var createEquipmentCmd = &cobra.Command{
	Use:   "create-equipment",
	Short: "Register a piece of equipment",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB(db)

		eq, err := ucUser.NewCreateEquipment(db).Execute(cmd.Context(), ucUser.CreateEquipmentInput{
			Name: equipmentFlags.name,
			Area: equipmentFlags.area,
		})
		if err != nil {
			return cliError(err)
		}

		log.Info("equipment created", zap.Uint("id", eq.ID))
		fmt.Fprintf(cmd.OutOrStdout(), "created equipment %q in %q (id %d)\n", eq.Name, eq.Area, eq.ID)
		return nil
	},
}

func init() {
	f := createUserCmd.Flags()
	f.StringVar(&userFlags.name, "name", "", "display name")
	f.StringVar(&userFlags.email, "email", "", "login email")
	f.StringVar(&userFlags.password, "password", "", "initial password")
	f.StringVar(&userFlags.role, "role", models.RoleTechnician, "manager or technician")
	f.BoolVar(&userFlags.checkDomain, "check-domain", false, "require the email domain to resolve")
	_ = createUserCmd.MarkFlagRequired("name")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("password")

	ef := createEquipmentCmd.Flags()
	ef.StringVar(&equipmentFlags.name, "name", "", "equipment name")
	ef.StringVar(&equipmentFlags.area, "area", "", "plant area")
	_ = createEquipmentCmd.MarkFlagRequired("name")
	_ = createEquipmentCmd.MarkFlagRequired("area")
}

// cliError prints validation failures as plain messages.
func cliError(err error) error {
	if be, ok := httperr.AsBusiness(err); ok && be.Message != "" {
		return errors.New(be.Message)
	}
	return err
}
