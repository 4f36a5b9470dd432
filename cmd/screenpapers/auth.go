package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"screenpapers/pkg/auth"
	"screenpapers/pkg/config"
	apperrors "screenpapers/pkg/errors"
	"screenpapers/pkg/logger"
	"screenpapers/pkg/ui"
	"screenpapers/pkg/unsplash"
)

var (
	showGuide bool
	verifyKey bool
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the Unsplash access key",
	Long: `Manage the stored Unsplash access key.

The key is stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation (fallback)

A key given with --access-key, UNSPLASH_ACCESS_KEY or the config file always
takes precedence over the stored one.`,
}

var setKeyCmd = &cobra.Command{
	Use:   "set-key [key]",
	Short: "Store an access key",
	Long: `Store an Unsplash access key securely.

Without an argument the key is read from the terminal without echo. Passing
the key as an argument leaves it in your shell history.`,
	Example: `  # Interactive, key is hidden while typing
  screenpapers auth set-key

  # Check the key against the API before saving it
  screenpapers auth set-key --verify`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSetKey,
}

var removeKeyCmd = &cobra.Command{
	Use:   "remove-key",
	Short: "Remove the stored access key",
	Args:  cobra.NoArgs,
	RunE:  runRemoveKey,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the access key comes from",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(setKeyCmd)
	authCmd.AddCommand(removeKeyCmd)
	authCmd.AddCommand(statusCmd)

	setKeyCmd.Flags().BoolVar(&showGuide, "guide", false, "show step-by-step instructions for getting a key")
	setKeyCmd.Flags().BoolVar(&verifyKey, "verify", false, "run a test search with the key before storing it")
}

func runSetKey(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	if showGuide {
		auth.ShowAccessKeyGuide()
	} else {
		auth.ShowQuickKeyGuide()
	}

	var key string
	if len(args) > 0 {
		key = strings.TrimSpace(args[0])
	} else {
		fmt.Print("\n🔑 Unsplash access key: ")
		key, err = readSecret()
		if err != nil {
			return fmt.Errorf("failed to read key: %w", err)
		}
	}
	if key == "" {
		return errors.New("no key entered")
	}

	if verifyKey {
		fmt.Println("\n🔎 Checking the key...")
		if err := testAccessKey(cmd.Context(), key); err != nil {
			return err
		}
		ui.PrintSuccess("Key accepted by Unsplash")
	}

	backend, err := manager.Store(&auth.Credential{Profile: profile, AccessKey: key})
	if err != nil {
		return fmt.Errorf("failed to store key: %w", err)
	}

	ui.PrintSuccess(fmt.Sprintf("\n✅ Access key %s stored", auth.MaskKey(key)))
	ui.PrintInfo("Backend", backend)
	if profile != "" {
		ui.PrintInfo("Profile", profile)
	}
	return nil
}

func runRemoveKey(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	fmt.Print("Remove the stored access key? (y/N): ")
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y") {
		fmt.Println("Cancelled")
		return nil
	}

	if err := manager.Delete(profile); err != nil {
		if errors.Is(err, auth.ErrCredentialsNotFound) {
			ui.PrintWarning("No stored key to remove")
			return nil
		}
		return err
	}
	ui.PrintSuccess("Stored access key removed")
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, commandFlags(cmd))
	if err != nil {
		return err
	}

	if cfg.HasAccessKey() {
		ui.PrintInfo("Active key", auth.MaskKey(cfg.Unsplash.AccessKey))
		ui.PrintInfo("Source", "flag, environment, .env or config file")
	}

	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}
	ui.PrintInfo("Backends", strings.Join(manager.Backends(), ", "))

	creds, _ := manager.List()
	if len(creds) == 0 {
		if !cfg.HasAccessKey() {
			ui.PrintWarning("No access key found. Run 'screenpapers auth set-key'")
		}
		return nil
	}

	fmt.Println()
	for _, c := range creds {
		fmt.Printf("  %s  %s  %s\n",
			ui.Cyan(c.Profile), auth.MaskKey(c.AccessKey),
			ui.Dim("updated "+c.LastModified.Format(time.RFC822)))
	}
	return nil
}

// testAccessKey runs a one-photo search with the key
func testAccessKey(ctx context.Context, key string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	cfg := config.DefaultConfig()
	client := unsplash.NewClient(&cfg.Unsplash, logger.NewNopLogger())

	_, err := client.SearchPhotos(ctx, unsplash.SearchParams{
		Query:     "wallpaper",
		Page:      1,
		PerPage:   1,
		AccessKey: key,
	})
	if err == nil {
		return nil
	}

	var appErr *apperrors.Error
	if apperrors.As(err, &appErr) && appErr.Type == apperrors.ErrorTypeRemote {
		return fmt.Errorf("key rejected by Unsplash (HTTP %d): %s", appErr.Code, appErr.Message)
	}
	return fmt.Errorf("could not reach Unsplash: %w", err)
}

// readSecret reads a line without echo when stdin is a terminal
func readSecret() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(b)), nil
		}
	}

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
