// Command adsim runs the simulator: one AMS port and one ADS service,
// wired together over an in-process bus (see package bus's doc comment for
// why port and service share one process rather than separate
// wire-connected hosts).
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/adsim/adsim/bus"
	"github.com/adsim/adsim/port"
	"github.com/adsim/adsim/registry"
	"github.com/adsim/adsim/service"

	adsim "github.com/adsim/adsim"
)

func main() {
	portConfigPath := flag.String("port-config", "", "path to port YAML config (optional, defaults applied otherwise)")
	serviceConfigPath := flag.String("service-config", "", "path to service YAML config (optional, defaults applied otherwise)")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	logger := adsim.NewDefaultLogger()
	if *verbose {
		handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		logger = adsim.NewSlogLogger(slog.New(handler))
	}
	metrics := adsim.NewInMemoryMetrics()

	portConfig := port.DefaultConfig()
	if *portConfigPath != "" {
		cfg, err := port.LoadConfig(*portConfigPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "adsim: load port config:", err)
			os.Exit(1)
		}
		portConfig = cfg
	}

	serviceConfig := service.DefaultConfig()
	if *serviceConfigPath != "" {
		cfg, err := service.LoadConfig(*serviceConfigPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "adsim: load service config:", err)
			os.Exit(1)
		}
		serviceConfig = cfg
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runSupervised(ctx, logger, portConfig, serviceConfig, metrics); err != nil && ctx.Err() == nil {
		fmt.Fprintln(os.Stderr, "adsim: fatal:", err)
		os.Exit(1)
	}
}

// runSupervised runs one generation of the port+service tree, restarting it
// on any component's unexpected return (the panic-on-critical-error restart
// policy described for the port's failure model), until ctx is canceled.
func runSupervised(ctx context.Context, logger adsim.Logger, portConfig *port.Config, serviceConfig *service.Config, metrics adsim.Metrics) error {
	for {
		err := runOnce(ctx, logger, portConfig, serviceConfig, metrics)
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			return nil
		}
		logger.Error("adsim: component failed, restarting", "err", err)
	}
}

func runOnce(ctx context.Context, logger adsim.Logger, portConfig *port.Config, serviceConfig *service.Config, metrics adsim.Metrics) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("adsim: panic: %v", r)
		}
	}()

	group, gctx := errgroup.WithContext(ctx)
	b := bus.New(group)

	const portServiceID = "port-1"
	const adsServiceID = "svc-1"

	portServer := port.NewServer(portConfig, b, portServiceID, port.WithLogger(logger), port.WithMetrics(metrics))
	portHTTP := port.NewHTTPServer(portServer)

	var reg registry.Registry = registry.NewMemory()
	if serviceConfig.RegistryPath != "" {
		reg = registry.NewFile(serviceConfig.RegistryPath)
	}

	engine, buildErr := service.NewEngine(serviceConfig, reg, logger, metrics)
	if buildErr != nil {
		return fmt.Errorf("adsim: build engine: %w", buildErr)
	}

	svcServer := service.NewServer(serviceConfig, engine, b, adsServiceID, portServiceID, service.WithLogger(logger), service.WithMetrics(metrics))
	svcHTTP := service.NewHTTPServer(svcServer)

	group.Go(func() error {
		return portServer.Serve(gctx)
	})

	if portConfig.Admin.Enabled {
		group.Go(func() error {
			go func() {
				<-gctx.Done()
				_ = portHTTP.Shutdown()
			}()
			if err := portHTTP.Serve(portConfig.Admin.Listen); err != nil && gctx.Err() == nil {
				return err
			}
			return nil
		})
	}

	if serviceConfig.Admin.Enabled {
		group.Go(func() error {
			go func() {
				<-gctx.Done()
				_ = svcHTTP.Shutdown()
			}()
			if err := svcHTTP.Serve(serviceConfig.Admin.Listen); err != nil && gctx.Err() == nil {
				return err
			}
			return nil
		})
	}

	group.Go(func() error {
		svcServer.RoutePingLoop(gctx)
		return nil
	})

	go func() {
		<-gctx.Done()
		_ = portServer.Shutdown()
	}()

	return group.Wait()
}
