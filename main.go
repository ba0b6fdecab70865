package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"crashwatch/src/bootstrap"
	"crashwatch/src/database"
	"crashwatch/src/repository"
	"crashwatch/src/server"

	logger "github.com/sirupsen/logrus"
)

var (
	APP_NAME = os.Getenv("APP_NAME")
)

func SetupLogger() {
	levelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))

	level, err := logger.ParseLevel(levelStr)
	if err != nil {
		level = logger.DebugLevel
	}

	logger.SetLevel(level)
	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})
}

func main() {
	SetupLogger()

	// Initialize the durable crash store before anything can crash into it
	if err := database.InitMainDB(); err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}

	app, err := bootstrap.New(logger.StandardLogger(), repository.NewCrashSlotRepository())
	if err != nil {
		logger.WithError(err).Fatal("Failed to build crash pipeline")
	}
	app.Install()
	defer handlePanic(app)

	router := server.NewRouter(server.Deps{
		Boundary:  app.Boundary,
		Inspector: app.Inspector,
		Document:  app.Document,
	})
	server.StartServer(server.GetConfig().Port, router, app.Supervisor)
}

func handlePanic(app *bootstrap.App) {
	if r := recover(); r != nil {
		app.Supervisor.Panic(r, debug.Stack())
		logger.WithError(fmt.Errorf("%+v", r)).Error(fmt.Sprintf("Application %s panic", APP_NAME))
	}
	//nolint
	time.Sleep(time.Second * 5)
}
