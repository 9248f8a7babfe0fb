package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lethe-storage/lethe/pkg/domain"
)

var (
	bindDirs    []string
	bindVariant string
)

var bindCmd = &cobra.Command{
	Use:   "bind",
	Short: "Bind host directories to ephemeral storage",
	Run: func(cmd *cobra.Command, args []string) {
		if len(bindDirs) == 0 {
			fmt.Fprintln(os.Stderr, "at least one --dir is required")
			os.Exit(1)
		}
		body, err := json.Marshal(domain.BindRequest{Variant: bindVariant, Targets: bindDirs})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding request: %v\n", err)
			os.Exit(1)
		}
		resp, err := doRequest("POST", "/actions/ephemeral-storage/bind", bytes.NewReader(body))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error binding directories: %v\n", err)
			os.Exit(1)
		}
		if err := copyResponse(resp); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	bindCmd.Flags().StringArrayVar(&bindDirs, "dir", nil, "Directory to bind (repeatable)")
	bindCmd.Flags().StringVar(&bindVariant, "variant", "", "Variant selecting the allow list (default: the server's configured variant)")
	rootCmd.AddCommand(bindCmd)
}
