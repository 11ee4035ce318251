package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/ptree/internal/cli"
	"github.com/temirov/ptree/internal/utils"
)

// main is the entry point for the ptree command.
func main() {
	logLevel := zap.NewAtomicLevelAt(zap.InfoLevel)
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger(logLevel)
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer func() { _ = loggerInstance.Sync() }()
	if applicationExecutionError := cli.Execute(loggerInstance, logLevel); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage + ": " + applicationExecutionError.Error())
	}
}
