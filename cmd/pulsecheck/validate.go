package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newValidateCmd validates the resolved configuration without polling.
func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		Long: `Validate the pulsecheck configuration without polling anything.

The YAML file (if any) is parsed, environment variables are expanded, flag
and PULSECHECK_* overrides are applied, and all fields are validated.
It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  pulsecheck validate -c pulsecheck.yaml
  PULSECHECK_INTERVAL=4 pulsecheck validate`,
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Config is valid!\n")
	_, _ = fmt.Fprintf(out, "  Port:     %d\n", cfg.Port)
	_, _ = fmt.Fprintf(out, "  Interval: %ds\n", cfg.Interval)
	_, _ = fmt.Fprintf(out, "  Timeout:  %s\n", cfg.Timeout.Duration())
	_, _ = fmt.Fprintf(out, "  Targets:  %d\n", len(cfg.Targets))
	for _, t := range cfg.Targets {
		_, _ = fmt.Fprintf(out, "    - %s\n", t)
	}
	logTo := "stderr"
	if cfg.Log.File != "" {
		logTo = cfg.Log.File
	}
	_, _ = fmt.Fprintf(out, "  Log:      %s, %s, %s\n", cfg.Log.Level, cfg.Log.Format, logTo)
	return nil
}
