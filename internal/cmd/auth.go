package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/ticketforge/internal/provider"
	"github.com/felixgeelhaar/ticketforge/internal/security"
	"github.com/felixgeelhaar/ticketforge/internal/ux"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage provider credentials",
	Long: `Manage API keys for planning providers.

Keys are stored encrypted in ~/.ticketforge/credentials.json. The
environment variable named in the provider configuration (by default
ANTHROPIC_API_KEY) always takes precedence over the store.

Subcommands:
  set     Store an API key for a provider
  status  Show which credentials are available
  remove  Delete a stored API key

Examples:
  ticketforge auth set anthropic
  ticketforge auth set anthropic --key sk-ant-...
  ticketforge auth status
  ticketforge auth remove anthropic`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var authSetCmd = &cobra.Command{
	Use:   "set [provider]",
	Short: "Store an API key for a provider",
	Long: `Store an API key in the encrypted credential store.

The key is read from --key or prompted for without echo. The provider
defaults to "anthropic".

Examples:
  ticketforge auth set anthropic
  ticketforge auth set anthropic --key sk-ant-...`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAuthSet,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which credentials are available",
	Long:  `List the stored credentials and report whether the environment variable is set.`,
	RunE:  runAuthStatus,
}

var authRemoveCmd = &cobra.Command{
	Use:   "remove [provider]",
	Short: "Delete a stored API key",
	Long: `Remove a provider's API key from the credential store.

The provider defaults to "anthropic".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAuthRemove,
}

func init() {
	authCmd.PersistentFlags().String("store", "", "credential store file (default ~/.ticketforge/credentials.json)")
	authSetCmd.Flags().String("key", "", "API key value (prompted for when omitted)")

	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authRemoveCmd)

	rootCmd.AddCommand(authCmd)
}

// credentialName is the store entry a provider's key lives under
func credentialName(providerName string) string {
	return providerName + "-api-key"
}

// providerArg returns the provider named by args, defaulting to anthropic
func providerArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "anthropic"
}

// openStore opens the credential store honoring the --store flag
func openStore(cmd *cobra.Command) (*security.CredentialStore, string, error) {
	storePath := cmd.Flags().Lookup("store").Value.String()
	if storePath == "" {
		var err error
		storePath, err = security.DefaultStorePath()
		if err != nil {
			return nil, "", fmt.Errorf("resolving credential store path: %w", err)
		}
	}

	store, err := security.NewCredentialStore(storePath, "")
	if err != nil {
		return nil, "", ux.FormatError(err, "opening credential store")
	}
	return store, storePath, nil
}

func runAuthSet(cmd *cobra.Command, args []string) error {
	providerName := providerArg(args)
	key := cmd.Flags().Lookup("key").Value.String()

	if key == "" {
		if !ux.ShouldPrompt() {
			return fmt.Errorf("--key is required when not running interactively")
		}
		var err error
		key, err = ux.PromptForString(ux.Prompt{
			Message:  fmt.Sprintf("API key for %s", providerName),
			Secret:   true,
			Required: true,
		})
		if err != nil {
			return ux.FormatError(err, "reading API key")
		}
	}

	store, storePath, err := openStore(cmd)
	if err != nil {
		return err
	}

	if err := store.Store(credentialName(providerName), key); err != nil {
		return ux.FormatError(err, "storing API key")
	}

	fmt.Printf("✓ Stored API key for %s in %s\n", providerName, storePath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Check credentials: ticketforge auth status")
	fmt.Println("  2. Plan a specification: ticketforge plan run --spec <file>")
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	store, storePath, err := openStore(cmd)
	if err != nil {
		return err
	}

	names := store.List()
	fmt.Printf("Credential store: %s\n\n", storePath)

	if len(names) == 0 {
		fmt.Println("No stored credentials.")
		fmt.Println()
		fmt.Println("Use 'ticketforge auth set anthropic' to store an API key.")
	} else {
		for _, name := range names {
			info, err := store.Info(name)
			if err != nil {
				fmt.Printf("  %s\n", name)
				continue
			}
			fmt.Printf("  %s  (updated %s)\n", name, info.UpdatedAt.Format("2006-01-02 15:04"))
		}
	}

	envVar := provider.DefaultConfig().APIKeyEnv
	fmt.Println()
	if os.Getenv(envVar) != "" {
		fmt.Printf("%s is set and takes precedence over the store.\n", envVar)
	} else {
		fmt.Printf("%s is not set; the store will be used.\n", envVar)
	}
	return nil
}

func runAuthRemove(cmd *cobra.Command, args []string) error {
	providerName := providerArg(args)

	store, _, err := openStore(cmd)
	if err != nil {
		return err
	}

	name := credentialName(providerName)
	if _, ok := store.Lookup(name); !ok {
		fmt.Printf("No stored API key for %s.\n", providerName)
		return nil
	}

	if err := store.Delete(name); err != nil {
		return ux.FormatError(err, "removing API key")
	}

	fmt.Printf("✓ Removed API key for %s\n", providerName)
	return nil
}
