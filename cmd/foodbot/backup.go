package foodbot

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Pablo-o-plomo/food-ai-bot/internal/config"
)

var backupOut string

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Copy the diary store with a sha256 checksum",
	RunE: func(cmd *cobra.Command, args []string) error {
		src := dataPath
		if src == "" {
			src = config.Load().DataPath
		}
		if backupOut == "" {
			return fmt.Errorf("backup output path is required")
		}
		if err := os.MkdirAll(filepath.Dir(backupOut), 0o755); err != nil {
			return fmt.Errorf("create backup directory: %w", err)
		}
		if err := copyFile(src, backupOut); err != nil {
			return err
		}
		checksum, err := fileSHA256(backupOut)
		if err != nil {
			return err
		}
		if err := os.WriteFile(backupOut+".sha256", []byte(checksum+"\n"), 0o644); err != nil {
			return fmt.Errorf("write checksum file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Backed up %s -> %s\n", src, backupOut)
		fmt.Fprintf(cmd.OutOrStdout(), "sha256: %s\n", checksum)
		return nil
	},
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source %s: %w", src, err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create backup %s: %w", dst, err)
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy backup: %w", err)
	}
	return out.Sync()
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.Flags().StringVar(&backupOut, "out", "", "Backup destination path")
	_ = backupCmd.MarkFlagRequired("out")
}
