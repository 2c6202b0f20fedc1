/*
Copyright 2025 Taqseet Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/taqseet/taqseet"
	"github.com/taqseet/taqseet/config"
	"github.com/taqseet/taqseet/database"
	"github.com/taqseet/taqseet/internal/notification"
)

// CLI represents the command-line application, encapsulating the root
// Cobra command.
type CLI struct {
	cmd *cobra.Command
}

// appInstance holds the service instance and its configuration, shared by
// all subcommands once preRun has executed.
type appInstance struct {
	taqseet *taqseet.Taqseet
	cnf     *config.Configuration
}

// recoverPanic handles any panics during program execution and logs the
// error using Logrus.
func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun sets up the configuration and initializes the service instance
// before running any command.
func preRun(app *appInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("taqseet.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newTaqseet, err := setupTaqseet(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.taqseet = newTaqseet
		app.cnf = cnf

		return nil
	}
}

// setupTaqseet creates and initializes the service instance based on the
// provided configuration.
func setupTaqseet(cfg *config.Configuration) (*taqseet.Taqseet, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	newTaqseet, err := taqseet.NewTaqseet(db)
	if err != nil {
		return nil, fmt.Errorf("error creating taqseet: %v", err)
	}
	return newTaqseet, nil
}

// NewCLI creates the command-line interface for the reconciliation server.
func NewCLI() *CLI {
	var configFile string
	b := &appInstance{}

	var rootCmd = &cobra.Command{
		Use:   "taqseet",
		Short: "Installment-sales reconciliation engine",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./taqseet.json", "Configuration file for taqseet")

	rootCmd.PersistentPreRunE = preRun(b)

	rootCmd.AddCommand(serverCommands(b))

	return &CLI{cmd: rootCmd}
}

// executeCLI runs the root command and handles errors.
func (w CLI) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()
	cli := NewCLI()
	cli.executeCLI()
}
