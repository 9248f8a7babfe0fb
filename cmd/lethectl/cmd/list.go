package cmd

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

var listDirsVariant string

var listDisksCmd = &cobra.Command{
	Use:   "list-disks",
	Short: "List discovered ephemeral disks",
	Run: func(cmd *cobra.Command, args []string) {
		getList("/actions/ephemeral-storage/list-disks", nil)
	},
}

var listDirsCmd = &cobra.Command{
	Use:   "list-dirs",
	Short: "List directories allowed for binding",
	Run: func(cmd *cobra.Command, args []string) {
		query := url.Values{}
		if listDirsVariant != "" {
			query.Set("variant", listDirsVariant)
		}
		getList("/actions/ephemeral-storage/list-dirs", query)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the live state of ephemeral storage",
	Run: func(cmd *cobra.Command, args []string) {
		getList("/actions/ephemeral-storage/status", nil)
	},
}

func getList(path string, query url.Values) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("format", requestFormat())

	resp, err := doRequest("GET", path+"?"+query.Encode(), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error querying %s: %v\n", path, err)
		os.Exit(1)
	}
	if err := copyResponse(resp); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	listDirsCmd.Flags().StringVar(&listDirsVariant, "variant", "", "Variant selecting the allow list (default: the server's configured variant)")
	rootCmd.AddCommand(listDisksCmd)
	rootCmd.AddCommand(listDirsCmd)
	rootCmd.AddCommand(statusCmd)
}
