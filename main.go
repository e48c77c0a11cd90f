package main

import (
	"context"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/mayuresh82/go-gmpls-te/lrm"
)

var (
	serverAddr  = flag.String("addr", "[::]:14841", "Addr for grpc server")
	tls         = flag.Bool("tls", false, "Connection uses TLS if true, else plain TCP")
	certFile    = flag.String("certFile", "", "The TLS cert file")
	keyFile     = flag.String("keyFile", "", "The TLS key file")
	metricsAddr = flag.String("metricsAddr", "", "Addr for the prometheus metrics endpoint, disabled if empty")
	configFile  = flag.String("config", "", "TOML inventory of TE nodes and links to load at startup")
	maxConns    = flag.Int("maxConns", 64, "Max concurrent grpc connections")
)

const shutdownTimeout = 5 * time.Second

func main() {
	flag.Parse()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx); err != nil {
		glog.Fatalf("%v", err)
	}
	glog.Infof("Exiting")
}

func run(ctx context.Context) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	table := lrm.NewTable(lrm.LogOriginator{}, lrm.NewMetrics(reg))
	if *configFile != "" {
		cfg, err := loadConfig(*configFile)
		if err != nil {
			return err
		}
		if err := cfg.Apply(table); err != nil {
			return errors.Wrap(err, "loading inventory")
		}
	}

	var opts []grpc.ServerOption
	if *tls {
		if *certFile == "" || *keyFile == "" {
			return errors.New("tls needs certFile and keyFile")
		}
		creds, err := credentials.NewServerTLSFromFile(*certFile, *keyFile)
		if err != nil {
			return errors.Wrap(err, "failed to generate credentials")
		}
		opts = append(opts, grpc.Creds(creds))
	}
	lis, err := net.Listen("tcp", *serverAddr)
	if err != nil {
		return errors.Wrap(err, "failed to listen")
	}
	lis = netutil.LimitListener(lis, *maxConns)
	grpcServer := grpc.NewServer(opts...)
	lrm.RegisterTeServiceServer(grpcServer, NewTeServer(table))

	g, errCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		glog.Infof("Starting GRPC server on %v", lis.Addr())
		return grpcServer.Serve(lis)
	})
	var metricsServer *http.Server
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		metricsServer = &http.Server{Addr: *metricsAddr, Handler: mux}
		g.Go(func() error {
			glog.Infof("Exposing metrics on %v", *metricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "serving metrics")
			}
			return nil
		})
	}
	g.Go(func() error {
		<-errCtx.Done()
		glog.Infof("Shutting down")
		grpcServer.GracefulStop()
		if metricsServer != nil {
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return metricsServer.Shutdown(sctx)
		}
		return nil
	})
	return g.Wait()
}
