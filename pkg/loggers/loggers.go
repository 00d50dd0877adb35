package loggers

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"

	"github.com/samarabdelhameed/aawallet-test/pkg/repo"
)

const (
	App            = "app"
	API            = "api"
	Storage        = "storage"
	Ledger         = "ledger"
	Executor       = "executor"
	SystemContract = "system_contract"
)

var w = &LoggerWrapper{
	loggers: map[string]*logrus.Entry{
		App:            newWithModule(App, os.Stdout, defaultFormatter(true, false), false),
		API:            newWithModule(API, os.Stdout, defaultFormatter(true, false), false),
		Storage:        newWithModule(Storage, os.Stdout, defaultFormatter(true, false), false),
		Ledger:         newWithModule(Ledger, os.Stdout, defaultFormatter(true, false), false),
		Executor:       newWithModule(Executor, os.Stdout, defaultFormatter(true, false), false),
		SystemContract: newWithModule(SystemContract, os.Stdout, defaultFormatter(true, false), false),
	},
}

type LoggerWrapper struct {
	loggers map[string]*logrus.Entry
}

func defaultFormatter(enableColor, disableTimestamp bool) logrus.Formatter {
	return &logrus.TextFormatter{
		ForceColors:      enableColor,
		DisableColors:    !enableColor,
		DisableTimestamp: disableTimestamp,
		FullTimestamp:    true,
		TimestampFormat:  "2006-01-02T15:04:05.000",
	}
}

func newWithModule(module string, out io.Writer, formatter logrus.Formatter, reportCaller bool) *logrus.Entry {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(formatter)
	l.SetReportCaller(reportCaller)
	return l.WithField("module", module)
}

func parseLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// Initialize rebuilds every module logger from the repo config. When persist is set,
// logs are also written to rotated files under <repo>/logs.
func Initialize(ctx context.Context, rep *repo.Repo, persist bool) error {
	config := rep.Config
	var out io.Writer = os.Stdout
	if persist {
		logDir := filepath.Join(rep.RepoRoot, repo.LogsDirName)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		rotationTime := config.Log.RotationTime.ToDuration()
		if rotationTime <= 0 {
			rotationTime = 24 * time.Hour
		}
		writer, err := rotatelogs.New(
			filepath.Join(logDir, config.Log.Filename+".%Y%m%d%H%M.log"),
			rotatelogs.WithLinkName(filepath.Join(logDir, config.Log.Filename+".log")),
			rotatelogs.WithMaxAge(time.Duration(config.Log.MaxAge)*24*time.Hour),
			rotatelogs.WithRotationTime(rotationTime),
		)
		if err != nil {
			return fmt.Errorf("log initialize: %w", err)
		}
		go func() {
			<-ctx.Done()
			_ = writer.Close()
		}()
		out = io.MultiWriter(os.Stdout, writer)
	}

	formatter := defaultFormatter(config.Log.EnableColor, config.Log.DisableTimestamp)
	build := func(module string, level string) *logrus.Entry {
		entry := newWithModule(module, out, formatter, config.Log.ReportCaller)
		entry.Logger.SetLevel(parseLevel(level))
		return entry
	}

	m := make(map[string]*logrus.Entry)
	m[App] = build(App, config.Log.Level)
	m[API] = build(API, config.Log.Module.API)
	m[Storage] = build(Storage, config.Log.Module.Storage)
	m[Ledger] = build(Ledger, config.Log.Module.Ledger)
	m[Executor] = build(Executor, config.Log.Module.Executor)
	m[SystemContract] = build(SystemContract, config.Log.Module.SystemContract)

	w = &LoggerWrapper{loggers: m}
	InitializeEthLog(m[API])
	return nil
}

func Logger(name string) logrus.FieldLogger {
	return w.loggers[name]
}
