package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "weather-now",
		Short:         "Current weather for the device location",
		Long:          "Fetches the current conditions and today's forecast from Open-Meteo and classifies them for display.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (yaml, json or toml)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the refresh scheduler and the optional MQTT publisher",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Load the weather once and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			opts := getOptions{output: output}
			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
				if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lon") {
					return fmt.Errorf("--lat and --lon must be given together")
				}
				opts.lat, _ = cmd.Flags().GetFloat64("lat")
				opts.lon, _ = cmd.Flags().GetFloat64("lon")
				opts.hasCoordinate = true
			}
			return runGet(cmd.OutOrStdout(), configPath, opts)
		},
	}
	getCmd.Flags().Float64("lat", 0, "latitude in decimal degrees")
	getCmd.Flags().Float64("lon", 0, "longitude in decimal degrees")
	getCmd.Flags().StringP("output", "o", "text", "output format (text, json)")

	conditionsCmd := &cobra.Command{
		Use:   "conditions",
		Short: "Show the weather code classification table",
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			return printConditions(cmd.OutOrStdout(), output)
		},
	}
	conditionsCmd.Flags().StringP("output", "o", "text", "output format (text, json)")

	rootCmd.AddCommand(serveCmd, getCmd, conditionsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
