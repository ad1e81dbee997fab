package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/biashara-api/internal/application/admin"
)

func verifySellerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify-seller [user-id]",
		Short: "Marca un vendedor como verificado",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := adminUC.VerifySeller(cmd.Context(), admin.SystemActor, args[0])
			if err != nil {
				return fmt.Errorf("verify seller %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seller %s verified\n", out.UserID)
			return nil
		},
	}
}

func unverifySellerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unverify-seller [user-id]",
		Short: "Quita la verificación de un vendedor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := adminUC.UnverifySeller(cmd.Context(), admin.SystemActor, args[0])
			if err != nil {
				return fmt.Errorf("unverify seller %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seller %s unverified\n", out.UserID)
			return nil
		},
	}
}
