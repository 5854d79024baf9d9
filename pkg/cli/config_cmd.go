package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"snowlens/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage connection profiles",
	}
	cmd.AddCommand(newConfigShowCmd(), newConfigUseCmd(), newConfigInitCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List configured profiles (credentials masked)",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			profiles, err := config.LoadProfiles(config.DefaultProfilesPath())
			if err != nil {
				return err
			}
			printProfiles(os.Stdout, profiles)
			return nil
		},
	}
}

func newConfigUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <profile>",
		Short: "Set the default profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := config.DefaultProfilesPath()
			profiles, err := config.LoadProfiles(path)
			if err != nil {
				return err
			}
			if _, ok := profiles.Profiles[args[0]]; !ok {
				return fmt.Errorf("profile %q not found in %s", args[0], path)
			}
			profiles.CurrentProfile = args[0]
			if err := config.SaveProfiles(path, profiles); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "current profile set to %s\n", args[0])
			return nil
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a skeleton profiles file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			path := config.DefaultProfilesPath()
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			skeleton := &config.Profiles{
				CurrentProfile: "default",
				Profiles: map[string]config.Profile{
					"default": {
						Account:   "your-account",
						User:      "your-user",
						Password:  "your-password",
						Database:  "SNOWFLAKE",
						Schema:    "ACCOUNT_USAGE",
						Warehouse: "COMPUTE_WH",
						Role:      "ACCOUNTADMIN",
					},
				},
			}
			if err := config.SaveProfiles(path, skeleton); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "wrote %s\n", path)
			return nil
		},
	}
}
