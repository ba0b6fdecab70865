package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"crashwatch/cmd/simulate"
	"crashwatch/src/bootstrap"
	"crashwatch/src/buildinfo"
	"crashwatch/src/connectors"
	"crashwatch/src/database"
	"crashwatch/src/repository"
	"crashwatch/src/server"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "crashwatch"
	app.Usage = "Inspect and exercise the board crash reporter"
	app.Version = buildinfo.Descriptor().Version

	app.Commands = []cli.Command{
		serveCMD,
		inspectCMD,
		clearCMD,
		simulateCMD,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	serveCMD = cli.Command{
		Name:        "serve",
		Usage:       "run the inspector HTTP server",
		Action:      serveAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Serve GET/DELETE /crash and POST /ui-events until interrupted`,
	}
	inspectCMD = cli.Command{
		Name:        "inspect",
		Usage:       "print the last recorded crash report",
		Action:      inspectAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Print the stored crash report as JSON`,
	}
	clearCMD = cli.Command{
		Name:        "clear",
		Usage:       "clear the last recorded crash report",
		Action:      clearAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Empty the crash slot`,
	}
	simulateCMD = cli.Command{
		Name:      "simulate",
		Usage:     "raise a synthetic failure and record it",
		Action:    simulateAction,
		ArgsUsage: "",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "kind",
				Value: simulate.KindPanic,
				Usage: "failure kind: " + strings.Join(simulate.Kinds, ", "),
			},
		},
		Description: `Install the pipeline, raise one failure and print the resulting report`,
	}
)

func newApp() (*bootstrap.App, error) {
	if err := database.InitMainDB(); err != nil {
		return nil, err
	}
	return bootstrap.New(logrus.StandardLogger(), repository.NewCrashSlotRepository())
}

func serveAction(_ *cli.Context) error {
	logrus.Info("Starting inspector server CMD")

	app, err := newApp()
	if err != nil {
		logrus.WithError(err).Error("Starting cmd")
		return err
	}
	app.Install()
	defer app.Supervisor.Recover()

	router := server.NewRouter(server.Deps{
		Boundary:  app.Boundary,
		Inspector: app.Inspector,
		Document:  app.Document,
	})
	server.StartServer(server.GetConfig().Port, router, app.Supervisor)
	return nil
}

func inspectAction(_ *cli.Context) error {
	app, err := newApp()
	if err != nil {
		logrus.WithError(err).Error("Starting cmd")
		return err
	}

	report, ok := app.Inspector.GetLastCrash(context.Background())
	if !ok {
		fmt.Println("no crash recorded")
		return nil
	}
	return printJSON(report)
}

func clearAction(_ *cli.Context) error {
	app, err := newApp()
	if err != nil {
		logrus.WithError(err).Error("Starting cmd")
		return err
	}

	if err := app.Inspector.ClearLastCrash(context.Background()); err != nil {
		logrus.WithError(err).Error("Clearing crash report")
		return err
	}
	fmt.Println("crash report cleared")
	return nil
}

func simulateAction(c *cli.Context) error {
	logrus.Info("Starting simulate CMD")

	app, err := newApp()
	if err != nil {
		logrus.WithError(err).Error("Starting cmd")
		return err
	}

	sim := &simulate.Simulator{
		App:    app,
		Client: connectors.NewClient(connectors.GetConfig(), app.Reporter),
		Kind:   c.String("kind"),
		Log:    logrus.WithField("cmd", "simulate"),
	}
	report, err := sim.Start(context.Background())
	if err != nil {
		logrus.WithError(err).Error("Simulating failure")
		return err
	}
	return printJSON(report)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
