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

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "5401"
)

var ConfigStore atomic.Value

type ServerConfig struct {
	SSL       bool   `json:"ssl" envconfig:"TAQSEET_SERVER_SSL"`
	Secure    bool   `json:"secure" envconfig:"TAQSEET_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"TAQSEET_SERVER_SECRET_KEY"`
	Domain    string `json:"domain" envconfig:"TAQSEET_SERVER_SSL_DOMAIN"`
	Email     string `json:"ssl_email" envconfig:"TAQSEET_SERVER_SSL_EMAIL"`
	Port      string `json:"port" envconfig:"TAQSEET_SERVER_PORT"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"TAQSEET_DATA_SOURCE_DNS"`
}

// PaymentGatewayConfig points the matcher at the payment gateway used by
// the installment-sales application. Events are verified by re-fetching
// the charge or invoice from BaseURL with the secret key; the id prefixes
// route an event id to the right object endpoint.
type PaymentGatewayConfig struct {
	BaseURL       string `json:"base_url" envconfig:"TAQSEET_GATEWAY_BASE_URL"`
	SecretKey     string `json:"secret_key" envconfig:"TAQSEET_GATEWAY_SECRET_KEY"`
	InvoicePrefix string `json:"invoice_prefix" envconfig:"TAQSEET_GATEWAY_INVOICE_PREFIX"`
	ChargePrefix  string `json:"charge_prefix" envconfig:"TAQSEET_GATEWAY_CHARGE_PREFIX"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url"`
}

type Notification struct {
	Slack SlackWebhook `json:"slack"`
}

type Configuration struct {
	ProjectName    string               `json:"project_name" envconfig:"TAQSEET_PROJECT_NAME"`
	Server         ServerConfig         `json:"server"`
	DataSource     DataSourceConfig     `json:"data_source"`
	PaymentGateway PaymentGatewayConfig `json:"payment_gateway"`
	Notification   Notification         `json:"notification"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("taqseet", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called taqseet.json with your config ❌")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Taqseet Reconciliation"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.PaymentGateway.BaseURL = strings.TrimSpace(cnf.PaymentGateway.BaseURL)

	// Set default value for Port if it's empty
	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.PaymentGateway.InvoicePrefix == "" {
		cnf.PaymentGateway.InvoicePrefix = "inv_"
	}
	if cnf.PaymentGateway.ChargePrefix == "" {
		cnf.PaymentGateway.ChargePrefix = "chg_"
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
