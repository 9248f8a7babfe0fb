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
	initFilesystem string
	initDisks      []string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize and format ephemeral storage",
	Run: func(cmd *cobra.Command, args []string) {
		req := domain.InitRequest{Disks: initDisks}
		if initFilesystem != "" {
			fs, err := domain.ParseFilesystem(initFilesystem)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			req.Filesystem = &fs
		}

		body, err := json.Marshal(req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding request: %v\n", err)
			os.Exit(1)
		}
		resp, err := doRequest("POST", "/actions/ephemeral-storage/init", bytes.NewReader(body))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing ephemeral storage: %v\n", err)
			os.Exit(1)
		}
		if err := copyResponse(resp); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	initCmd.Flags().StringVar(&initFilesystem, "filesystem", "", "Filesystem to format with: xfs or ext4 (default xfs)")
	initCmd.Flags().StringArrayVar(&initDisks, "disk", nil, "Disk to include (repeatable; default: all discovered ephemeral disks)")
	rootCmd.AddCommand(initCmd)
}
