package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lethe-storage/lethe/pkg/argus"
	"github.com/lethe-storage/lethe/pkg/hostcmd"
)

// scan runs locally instead of through the API: udev invokes it before the
// daemon is up.
var scanCmd = &cobra.Command{
	Use:   "scan [device]",
	Short: "Classify a block device as ephemeral or system (udev helper)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		device := args[0]
		f, err := os.Open(device)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", device, err)
			os.Exit(1)
		}
		defer f.Close()

		deviceType, err := argus.DeviceType(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error scanning %s: %v\n", device, err)
			os.Exit(1)
		}
		// udev consumes these as environment keys.
		fmt.Printf("LETHE_DEVICE_TYPE=%s\n", deviceType)
	},
}

var deviceNameCmd = &cobra.Command{
	Use:   "device-name [device]",
	Short: "Report the cloud-assigned device name from NVMe vendor data (udev helper)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name, err := argus.DeviceName(cmd.Context(), hostcmd.NewExecRunner(), hostcmd.DefaultToolchain(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error identifying %s: %v\n", args[0], err)
			os.Exit(1)
		}
		fmt.Printf("LETHE_DEVICE_NAME=%s\n", name)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(deviceNameCmd)
}
