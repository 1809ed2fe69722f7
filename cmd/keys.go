package cmd

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"
)

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Generate a TOKEN_CACHE_SECRET value (base64)",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := make([]byte, 32)
			if _, err := rand.Read(secret); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "export TOKEN_CACHE_SECRET=%s\n", base64.StdEncoding.EncodeToString(secret))
			return nil
		},
	}
}
