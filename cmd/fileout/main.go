package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/you/chat-fileout/internal/config"
	"github.com/you/chat-fileout/internal/core"
	"github.com/you/chat-fileout/internal/fileout"
	httpadmin "github.com/you/chat-fileout/internal/http"
	"github.com/you/chat-fileout/internal/httpapi"
	"github.com/you/chat-fileout/internal/objstore"
	"github.com/you/chat-fileout/internal/trigger"
	"github.com/you/chat-fileout/internal/version"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	var (
		versionFlag   bool
		brokerURL     string
		queue         string
		storeEndpoint string
		accessKey     string
		secretKey     string
		storeSSL      bool
		inputBucket   string
		outputBucket  string
		storeRPS      int
		httpAddr      string
		httpRateRPS   int
		httpRateBurst int
		httpMetrics   bool
		httpAccessLog bool
		onceChannel   string
		onceVideo     string
	)

	flag.BoolVar(&versionFlag, "version", false, "Print build version and exit")
	flag.StringVar(&brokerURL, "broker-url", "", "AMQP broker URL for trigger messages")
	flag.StringVar(&queue, "queue", "", "Queue to consume trigger messages from")
	flag.StringVar(&storeEndpoint, "store-endpoint", "", "Object store endpoint (host:port)")
	flag.StringVar(&accessKey, "store-access-key", "", "Object store access key")
	flag.StringVar(&secretKey, "store-secret-key", "", "Object store secret key")
	flag.BoolVar(&storeSSL, "store-ssl", false, "Use TLS for object store connections")
	flag.StringVar(&inputBucket, "input-bucket", "", "Bucket holding raw chat objects")
	flag.StringVar(&outputBucket, "output-bucket", "", "Bucket receiving CSV documents")
	flag.IntVar(&storeRPS, "store-rps", 0, "Maximum object store requests per second (0 = config default)")
	flag.StringVar(&httpAddr, "http-addr", "", "HTTP status/metrics address (e.g., :8080)")
	flag.IntVar(&httpRateRPS, "http-rate-rps", 0, "Maximum HTTP requests per second per client")
	flag.IntVar(&httpRateBurst, "http-rate-burst", 0, "Burst size for HTTP rate limiter")
	flag.BoolVar(&httpMetrics, "http-metrics", true, "Expose Prometheus metrics endpoint")
	flag.BoolVar(&httpAccessLog, "http-access-log", false, "Log HTTP access records")
	flag.StringVar(&onceChannel, "channel-id", "", "Run one export for this channel and exit (with -video-id)")
	flag.StringVar(&onceVideo, "video-id", "", "Run one export for this video and exit (with -channel-id)")
	flag.Parse()

	if versionFlag {
		fmt.Printf(
			"fileout version: %s (commit %s, built %s)\n",
			version.Version,
			version.Commit,
			version.BuildTime,
		)
		os.Exit(0)
	}

	overrides := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		overrides[f.Name] = true
	})

	cfg := config.Load()

	if overrides["broker-url"] {
		cfg.Broker.URL = strings.TrimSpace(brokerURL)
	}
	if overrides["queue"] {
		cfg.Broker.Queue = strings.TrimSpace(queue)
	}
	if overrides["store-endpoint"] {
		cfg.Store.Endpoint = strings.TrimSpace(storeEndpoint)
	}
	if overrides["store-access-key"] {
		cfg.Store.AccessKey = strings.TrimSpace(accessKey)
	}
	if overrides["store-secret-key"] {
		cfg.Store.SecretKey = strings.TrimSpace(secretKey)
	}
	if overrides["store-ssl"] {
		cfg.Store.UseSSL = storeSSL
	}
	if overrides["input-bucket"] {
		cfg.Store.InputBucket = strings.TrimSpace(inputBucket)
	}
	if overrides["output-bucket"] {
		cfg.Store.OutputBucket = strings.TrimSpace(outputBucket)
	}
	if overrides["store-rps"] && storeRPS > 0 {
		cfg.Store.RequestsPerSec = storeRPS
	}
	if overrides["http-addr"] {
		cfg.HTTP.Addr = strings.TrimSpace(httpAddr)
	}
	if overrides["http-rate-rps"] && httpRateRPS > 0 {
		cfg.HTTP.RateLimitRPS = httpRateRPS
	}
	if overrides["http-rate-burst"] && httpRateBurst > 0 {
		cfg.HTTP.RateLimitBurst = httpRateBurst
	}
	if overrides["http-metrics"] {
		cfg.HTTP.Metrics = httpMetrics
	}
	if overrides["http-access-log"] {
		cfg.HTTP.AccessLog = httpAccessLog
	}

	configSnapshot := cfg.Redacted()
	log.Printf("%s", cfg.SummaryJSON())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("fileout: received %s, shutting down", sig)
		cancel()
	}()

	store, err := objstore.New(objstore.Options{
		Endpoint:       cfg.Store.Endpoint,
		AccessKey:      cfg.Store.AccessKey,
		SecretKey:      cfg.Store.SecretKey,
		UseSSL:         cfg.Store.UseSSL,
		RequestsPerSec: cfg.Store.RequestsPerSec,
	})
	if err != nil {
		log.Fatalf("fileout: object store: %v", err)
	}

	build := httpapi.BuildInfo{Version: version.Version, Revision: version.Commit}
	if version.BuildTime != "" && version.BuildTime != "unknown" {
		if t, err := time.Parse(time.RFC3339, version.BuildTime); err == nil {
			build.BuiltAt = t
		}
	}

	var api *httpapi.Server
	if cfg.HTTP.Addr != "" {
		api = httpapi.New(httpapi.Options{
			Addr:            cfg.HTTP.Addr,
			RateLimitRPS:    cfg.HTTP.RateLimitRPS,
			RateLimitBurst:  cfg.HTTP.RateLimitBurst,
			EnableMetrics:   cfg.HTTP.Metrics,
			EnableAccessLog: cfg.HTTP.AccessLog,
			Build:           build,
			ConfigSnapshot:  configSnapshot,
		})
	}

	var svc *fileout.Service
	svcCfg := fileout.Config{
		InputBucket:  cfg.Store.InputBucket,
		OutputBucket: cfg.Store.OutputBucket,
	}
	if api != nil {
		metered := fileout.WithMetrics(store, store, api.Metrics())
		svc = fileout.New(metered, metered, svcCfg, slog.Default())
	} else {
		svc = fileout.New(store, store, svcCfg, slog.Default())
	}

	runner := &jobRunner{svc: svc, api: api}

	if api != nil {
		admin := httpadmin.New(runner)
		admin.Register(api.Mux())
		go func() {
			if err := api.Start(); err != nil {
				log.Fatalf("fileout: http api: %v", err)
			}
		}()
		log.Printf("fileout: http api ready on %s", cfg.HTTP.Addr)
	}

	onceChannel = strings.TrimSpace(onceChannel)
	onceVideo = strings.TrimSpace(onceVideo)
	if onceChannel != "" || onceVideo != "" {
		if onceChannel == "" || onceVideo == "" {
			log.Fatal("fileout: -channel-id and -video-id must be set together")
		}
		rows, err := runner.RunJob(ctx, core.Trigger{ChannelID: onceChannel, VideoID: onceVideo})
		if err != nil {
			log.Fatalf("fileout: export %s/%s: %v", onceChannel, onceVideo, err)
		}
		log.Printf("fileout: export %s/%s complete (%d rows)", onceChannel, onceVideo, rows)
		shutdownAPI(api)
		return
	}

	var rec trigger.Recorder
	if api != nil {
		rec = api.Metrics()
	}
	consumer := trigger.NewConsumer(trigger.Config{
		URL:   cfg.Broker.URL,
		Queue: cfg.Broker.Queue,
	}, func(ctx context.Context, trig core.Trigger) error {
		_, err := runner.RunJob(ctx, trig)
		return err
	}, rec)

	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		log.Printf("fileout: consumer exited: %v", err)
	}

	shutdownAPI(api)
	log.Printf("fileout: shutdown complete")
}

// jobRunner funnels every entry point (queue consumer, admin endpoint, once
// mode) through the same service call and metrics accounting.
type jobRunner struct {
	svc *fileout.Service
	api *httpapi.Server
}

func (r *jobRunner) RunJob(ctx context.Context, trig core.Trigger) (int, error) {
	rows, err := r.svc.Process(ctx, trig)
	if err != nil {
		return 0, err
	}
	if r.api != nil {
		r.api.Metrics().AddRowsWritten(rows)
	}
	return rows, nil
}

func shutdownAPI(api *httpapi.Server) {
	if api == nil {
		return
	}
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	if err := api.Shutdown(shutdownCtx); err != nil {
		log.Printf("fileout: http api shutdown: %v", err)
	}
	cancelShutdown()
}
