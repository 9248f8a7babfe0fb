package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	socketPath string
	outputFmt  string
)

var rootCmd = &cobra.Command{
	Use:   "lethectl",
	Short: "Lethe CLI",
	Long:  `A host-local tool to manage ephemeral storage through the Lethe API.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", "/run/lethe/api.sock", "Lethe API socket path")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "", "Output format: text, json or yaml (default: text on a terminal, json otherwise)")

	viper.SetConfigName("lethectl")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/lethe")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home + "/.config/lethe")
	}
	_ = viper.ReadInConfig()
}
