package foodbot

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dataPath string
	backend  string
)

var rootCmd = &cobra.Command{
	Use:   "foodbot",
	Short: "foodbot tracks calories from chat messages, photos, and voice",
	Long:  "foodbot is a Telegram nutrition assistant: it estimates calories and macros for meals, keeps a per-user daily diary with undo, and derives calorie targets from a profile.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "Path to the diary store (users.json or .db)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Store backend: json or sqlite")
}
