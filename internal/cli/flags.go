package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vk/gridflow/internal/app"
)

const envPrefix = "GRIDFLOW"

const (
	flagGrid            = "grid"
	flagWorkers         = "workers"
	flagIsolation       = "isolation"
	flagFailFast        = "fail-fast"
	flagLogsDir         = "logs-dir"
	flagArgs            = "args"
	flagEvents          = "events"
	flagLogFormat       = "log-format"
	flagLogLevel        = "log-level"
	flagHealthcheckPort = "healthcheck-port"
)

func addLogFlags(cmd *cobra.Command) {
	cmd.Flags().String(flagLogFormat, "text", "Log output format. Options: 'text' or 'json'.")
	cmd.Flags().String(flagLogLevel, "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
}

func addGridFlag(cmd *cobra.Command) {
	cmd.Flags().StringSliceP(flagGrid, "g", nil, "Path to a grid file or directory. May be repeated.")
}

func addRunFlags(cmd *cobra.Command) {
	addGridFlag(cmd)
	addLogFlags(cmd)
	cmd.Flags().Int(flagWorkers, 10, "Number of executions run at once.")
	cmd.Flags().String(flagIsolation, "goroutine", "Where executions run. Options: 'goroutine' or 'process'.")
	cmd.Flags().Bool(flagFailFast, false, "Stop starting executions after the first failure.")
	cmd.Flags().String(flagLogsDir, "", "Directory receiving one log file per execution.")
	cmd.Flags().String(flagArgs, "", "YAML file with additional executions.")
	cmd.Flags().String(flagEvents, "", "File receiving run events as JSON lines.")
	cmd.Flags().Int(flagHealthcheckPort, 0, "Port for the HTTP health check server. 0 is disabled.")
}

// bindFlags makes every flag of cmd readable through v, with GRIDFLOW_*
// environment variables as fallback.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}
	return nil
}

// configFromViper assembles the app configuration. Positional arguments are
// appended to the --grid paths.
func configFromViper(v *viper.Viper, args []string) (*app.Config, error) {
	paths := append(v.GetStringSlice(flagGrid), args...)
	return app.NewConfig(app.Config{
		Paths:           paths,
		ArgsFile:        v.GetString(flagArgs),
		EventsPath:      v.GetString(flagEvents),
		Workers:         v.GetInt(flagWorkers),
		Isolation:       strings.ToLower(v.GetString(flagIsolation)),
		FailFast:        v.GetBool(flagFailFast),
		LogsDir:         v.GetString(flagLogsDir),
		LogFormat:       strings.ToLower(v.GetString(flagLogFormat)),
		LogLevel:        strings.ToLower(v.GetString(flagLogLevel)),
		HealthcheckPort: v.GetInt(flagHealthcheckPort),
	})
}
