package api

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/perfpack/perfpack/internal/collect"
	"github.com/perfpack/perfpack/internal/constants"
	perrors "github.com/perfpack/perfpack/internal/errors"
	"github.com/perfpack/perfpack/internal/logging"
	"github.com/perfpack/perfpack/internal/options"
	"github.com/perfpack/perfpack/internal/runas"
	"github.com/perfpack/perfpack/internal/shell"
)

// collectCmdName is the subcommand re-invoked inside the app context.
const collectCmdName = "api-collect"

func collectFormats() options.FormatMap {
	return options.FormatMap{
		"--app": {Type: options.String, Policy: options.NotAllowed},
		"-o":    {Type: options.String, Policy: options.NotAllowed},
		// Internal flags below are set by the app-context runner and are not
		// part of the public contract.
		"--in-app":         {Type: options.Bool, Policy: options.Allowed},
		"--out-fd":         {Type: options.Fd, Policy: options.CheckFd},
		"--stop-signal-fd": {Type: options.Fd, Policy: options.CheckFd},
	}
}

// NewCollectCmd creates the api-collect command.
func NewCollectCmd(logCfg logging.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "api-collect --app <package_name> [-o <path>]",
		Short: "Collect recording data generated via the app API",
		Long: `Collect the recording files the profiler produced for an application,
package them into a zip archive and delete the originals.

--app <package_name>    the application holding recording data
-o <path>               where to store the archive
                        (default ` + constants.DefaultOutputFile + `)`,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if wantsHelp(args) {
				return cmd.Help()
			}
			action := newCollectAction(logCfg)
			return action.run(args)
		},
	}
}

// appContextRunner is the context-switch seam; satisfied by runas.Runner.
type appContextRunner interface {
	RunInAppContext(app, cmdName string, args []string, formats options.FormatMap, outputPath string) error
}

// collectAction carries the collaborators of one api-collect invocation.
type collectAction struct {
	runner    shell.Runner
	appRunner appContextRunner
	dataDir   string
	log       zerolog.Logger
}

func newCollectAction(logCfg logging.Config) *collectAction {
	log := logging.NewWithComponent(logCfg, "api-collect")
	return &collectAction{
		runner:    shell.New(),
		appRunner: &runas.Runner{Log: log},
		dataDir:   constants.DataDir,
		log:       log,
	}
}

func (a *collectAction) run(args []string) error {
	set, err := options.Parse(args, collectFormats())
	if err != nil {
		return err
	}
	app, _ := set.PullString("--app")
	output, ok := set.PullString("-o")
	if !ok {
		output = constants.DefaultOutputFile
	}
	inApp := set.PullBool("--in-app")
	outFd, hasOutFd := set.PullFd("--out-fd")
	stopFd, hasStopFd := set.PullFd("--stop-signal-fd")
	set.AssertEmpty()

	if !inApp {
		// Outer mode: no collection happens here, only the context switch.
		// The raw args travel along; the runner forwards or remaps them per
		// their declared policies.
		if app == "" {
			return errors.New("--app is missing")
		}
		return a.appRunner.RunInAppContext(app, collectCmdName, args, collectFormats(), output)
	}

	if hasStopFd {
		collect.WatchStopSignal(os.NewFile(uintptr(stopFd), "stop-signal-fd"), a.log)
	}
	if !hasOutFd {
		return errors.New("--out-fd is missing in app context")
	}
	out := os.NewFile(uintptr(outFd), "out-fd")
	defer perrors.DeferClose(a.log, out, "failed to close output stream")

	collector := &collect.Collector{DataDir: a.dataDir, Runner: a.runner, Log: a.log}
	if err := collector.Collect(out); err != nil {
		return fmt.Errorf("failed to collect recording data: %w", err)
	}
	return collector.Remove()
}
