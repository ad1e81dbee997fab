package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/biashara-api/internal/application/dto"
)

func createAdminCmd() *cobra.Command {
	var in dto.CreateAdminRequest
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Crea un usuario administrador",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Password == "" {
				in.Password = os.Getenv("ADMIN_PASSWORD")
			}
			if in.Email == "" || in.Password == "" {
				return errors.New("--email y --password (o ADMIN_PASSWORD) son requeridos")
			}
			user, err := adminUC.CreateAdmin(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Admin %s created (%s)\n", user.Email, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "email del administrador")
	cmd.Flags().StringVar(&in.Password, "password", "", "contraseña (por defecto ADMIN_PASSWORD)")
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "nombre")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "apellido")
	return cmd
}
