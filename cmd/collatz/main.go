// Command collatz reads "i j" lines from stdin and prints "i j v", where v is
// the largest Collatz cycle length between i and j inclusive.
//
// Settings come from collatz.yaml or COLLATZ_* variables; see internal/config.
package main

import (
	"context"
	"fmt"
	"io"

	"github.com/on-the-ground/collatz_ive_go/batch"
	"github.com/on-the-ground/collatz_ive_go/cache"
	"github.com/on-the-ground/collatz_ive_go/collatz"
	"github.com/on-the-ground/collatz_ive_go/effects/log"
	"github.com/on-the-ground/collatz_ive_go/internal/appshell"
	"github.com/on-the-ground/collatz_ive_go/internal/config"
	"github.com/on-the-ground/collatz_ive_go/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	exitOK    = 0
	exitError = 1

	logBufferSize = 64
)

func main() {
	appshell.Main(run)
}

func run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "collatz: %v\n", err)
		return exitError
	}

	logger, err := newLogger(cfg.Log, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "collatz: %v\n", err)
		return exitError
	}
	ctx, endOfLogHandler := log.WithZapEffectHandler(ctx, logBufferSize, logger)
	defer endOfLogHandler()

	opts := []collatz.Option{
		collatz.WithCapacity(cfg.Engine.Capacity),
		collatz.WithStepLimit(cfg.Engine.StepLimit),
	}
	if cfg.Engine.OverflowEntries > 0 {
		overflow, err := cache.NewRistretto(cfg.Engine.OverflowEntries)
		if err != nil {
			log.Effect(ctx, log.LogError, "failed to create overflow cache", map[string]interface{}{"error": err.Error()})
			return exitError
		}
		defer overflow.Close()
		opts = append(opts, collatz.WithOverflowCache(overflow))
	}
	engine := collatz.New(opts...)

	reg := prometheus.NewRegistry()
	recorder := metrics.New(reg, engine)

	solver := batch.New(engine,
		batch.WithWorkers(cfg.Batch.Workers),
		batch.WithBufferSize(cfg.Batch.BufferSize),
		batch.WithTableSize(cfg.Batch.TableSize),
		batch.WithRecorder(recorder),
	)
	log.Effect(ctx, log.LogDebug, "solving", map[string]interface{}{
		"capacity": cfg.Engine.Capacity,
		"workers":  cfg.Batch.Workers,
	})

	rep, err := solver.Solve(ctx, stdin, stdout)
	log.Effect(ctx, log.LogInfo, "batch finished", rep.Fields())
	if snap, snapErr := metrics.Snapshot(reg); snapErr == nil {
		fields := make(map[string]interface{}, len(snap))
		for k, v := range snap {
			fields[k] = v
		}
		log.Effect(ctx, log.LogDebug, "metrics", fields)
	}

	switch {
	case err == nil:
		return exitOK
	case ctx.Err() != nil:
		log.Effect(ctx, log.LogWarn, "interrupted", nil)
		return appshell.ExitInterrupted
	default:
		log.Effect(ctx, log.LogError, "batch failed", map[string]interface{}{"error": err.Error()})
		return exitError
	}
}

func newLogger(cfg config.LogConfig, w io.Writer) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoder := zapcore.NewJSONEncoder(encoderConfig)
	if cfg.Development {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}
	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), level)), nil
}
