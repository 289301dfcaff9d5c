package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var opts globalOptions

	rootCmd := &cobra.Command{
		Use:           "loadplan",
		Short:         "Pallet placement planner for multi-stop truck routes",
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setup(opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.loadplan/config.json)")
	rootCmd.PersistentFlags().StringVar(&opts.inventoryPath, "inventory", "", "inventory file (default ~/.loadplan/inventory.json)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error, off")

	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(compareCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(vehiclesCmd())
	rootCmd.AddCommand(plansCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func planCmd() *cobra.Command {
	var out exportOptions
	var vehicle string

	cmd := &cobra.Command{
		Use:   "plan [route-file]",
		Short: "Place the pallets of a route on a vehicle and print the stop timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runPlan(args[0], vehicle, out)
		},
	}

	cmd.Flags().StringVarP(&vehicle, "vehicle", "v", "", "vehicle name or id (default from config)")
	out.register(cmd)
	cmd.Flags().StringVar(&out.savePath, "save", "", "write the plan to this file")
	cmd.Flags().StringVarP(&out.name, "name", "n", "", "plan name stored with --save")
	return cmd
}

func compareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare [route-file]",
		Short: "Plan a route on every vehicle of the inventory",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runCompare(args[0])
		},
	}
}

func showCmd() *cobra.Command {
	var out exportOptions
	var stop string

	cmd := &cobra.Command{
		Use:   "show [plan-file]",
		Short: "Print a saved plan, optionally as loaded after one stop",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runShow(args[0], stop, out)
		},
	}

	cmd.Flags().StringVarP(&stop, "stop", "s", "", "show the cargo aboard after this stop id")
	out.register(cmd)
	return cmd
}

func vehiclesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vehicles",
		Short: "List the vehicle profiles and pallet presets of the inventory",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			printInventory(os.Stdout, state.inventory)
			return nil
		},
	}
}

func plansCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "plans",
		Short: "List saved plans",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runPlans(dir)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "plan directory (default ~/.loadplan/plans)")
	return cmd
}

func configCmd() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfig(save)
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "write the effective configuration to the config file")
	return cmd
}
