// Package main - entry point for the estimate API server
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solar-estimate/api"
	"solar-estimate/core/engine"
	"solar-estimate/core/output"
	"solar-estimate/core/rules"
	"solar-estimate/internal/config"
	"solar-estimate/internal/logging"
)

const version = "0.1.0"

func main() {
	cfgPath := flag.String("config", "", "config file (default is $HOME/.solar-estimate.json)")
	addr := flag.String("addr", "", "server address (overrides the config)")
	rulesPath := flag.String("rules", "", "pricing rule document (overrides the config)")
	flag.Parse()

	if err := run(*cfgPath, *addr, *rulesPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath, addr, rulesPath string) error {
	config.LoadDotEnv()
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if rulesPath != "" {
		cfg.Rules.Path = rulesPath
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	var rs *rules.RuleSet
	if cfg.Rules.Path == "" {
		rs, err = rules.LoadDefault()
	} else {
		rs, err = rules.Load(cfg.Rules.Path)
	}
	if err != nil {
		return err
	}

	eng, err := engine.New(rs,
		engine.WithLogger(logger.Named("engine")),
		engine.WithRepresentative(cfg.Company.Representative),
	)
	if err != nil {
		return err
	}

	srv := api.NewServer(eng, api.Options{
		Version: version,
		Company: output.Company{
			Name:       cfg.Company.Name,
			PostalCode: cfg.Company.PostalCode,
			Address:    cfg.Company.Address,
			Tel:        cfg.Company.Tel,
			Fax:        cfg.Company.Fax,
		},
		Logger:       logger.Named("api"),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(cfg.Server.Addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
