// Package api implements the api-prepare and api-collect commands, the glue
// between the profiler's app API and the device's permission model. Both
// commands parse their own flags through the options table so that every
// argument is validated before any side effect.
package api

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/perfpack/perfpack/internal/android"
	"github.com/perfpack/perfpack/internal/constants"
	"github.com/perfpack/perfpack/internal/grant"
	"github.com/perfpack/perfpack/internal/logging"
	"github.com/perfpack/perfpack/internal/options"
	"github.com/perfpack/perfpack/internal/perfevent"
	"github.com/perfpack/perfpack/internal/shell"
	"github.com/perfpack/perfpack/internal/tracepoint"
)

func prepareFormats() options.FormatMap {
	return options.FormatMap{
		"--app":  {Type: options.String, Policy: options.NotAllowed},
		"--days": {Type: options.Uint, Policy: options.NotAllowed},
	}
}

// NewPrepareCmd creates the api-prepare command.
func NewPrepareCmd(logCfg logging.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "api-prepare [--app <package_name>] [--days <days>]",
		Short: "Prepare recording via the app API",
		Long: `Enable profiling for an application that records itself through the
profiler's app API.

--app <package_name>    the application to allow recording for
--days <days>           by default the recording permission is reset after
                        device reboot; on Android >= 13 this option makes it
                        last the given number of days across reboots`,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if wantsHelp(args) {
				return cmd.Help()
			}
			action := newPrepareAction(logCfg)
			return action.run(args)
		},
	}
}

// prepareAction carries the collaborators of one api-prepare invocation.
type prepareAction struct {
	runner         shell.Runner
	props          *android.Props
	checker        *perfevent.Checker
	registry       *tracepoint.Registry
	tracepointPath string
	log            zerolog.Logger
}

func newPrepareAction(logCfg logging.Config) *prepareAction {
	log := logging.NewWithComponent(logCfg, "api-prepare")
	runner := shell.New()
	props := android.NewProps(runner, log)
	return &prepareAction{
		runner:         runner,
		props:          props,
		checker:        &perfevent.Checker{Props: props, Log: log},
		registry:       &tracepoint.Registry{},
		tracepointPath: constants.TracepointEventsPath,
		log:            log,
	}
}

func (a *prepareAction) run(args []string) error {
	set, err := options.Parse(args, prepareFormats())
	if err != nil {
		return err
	}
	app, _ := set.PullString("--app")
	days, _ := set.PullUint("--days")
	set.AssertEmpty()

	if a.props.Version() >= constants.MinDurableGrantVersion && app != "" && days != 0 {
		g := &grant.Granter{Props: a.props, Runner: a.runner, Log: a.log}
		if err := g.Grant(app, days); err != nil {
			return err
		}
	} else {
		// Older releases lack the per-app grant: fall back to relaxing the
		// global perf-event gate instead.
		a.log.Debug().Msg("using transient grant via perf event limit check")
		if err := a.checker.CheckLimit(); err != nil {
			return err
		}
	}

	if err := a.registry.WriteToFile(a.tracepointPath); err != nil {
		return fmt.Errorf("failed to write tracepoint events: %w", err)
	}
	a.log.Info().Str("path", a.tracepointPath).Msg("tracepoint events written")
	return nil
}

// wantsHelp scans raw args since flag parsing is disabled on api commands.
func wantsHelp(args []string) bool {
	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			return true
		}
	}
	return false
}
