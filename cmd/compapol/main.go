// Command compapol serves the dictation and police-draft API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kbukum/compapol/config"
	"github.com/kbukum/compapol/internal/app"
	"github.com/kbukum/compapol/version"
)

func main() {
	configFile := flag.String("config", "", "path to config.yml (searched for when empty)")
	envFile := flag.String("env", "", "path to a .env file (searched for when empty)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if err := run(*configFile, *envFile); err != nil {
		fmt.Fprintf(os.Stderr, "compapol: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile, envFile string) error {
	opts := []config.LoaderOption{config.WithConfigFile(configFile), config.WithEnvFile(envFile)}
	for env, key := range app.EnvAliases {
		opts = append(opts, config.WithAlias(env, key))
	}

	cfg := &app.Config{}
	if err := config.LoadConfig(app.ServiceName, cfg, opts...); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Version == "" {
		cfg.Version = version.Short()
	}

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	return svc.Run(context.Background())
}
