package loggers

import (
	"github.com/ethereum/go-ethereum/log"
	"github.com/sirupsen/logrus"
)

var levelMap = map[log.Lvl]logrus.Level{
	log.LvlCrit:  logrus.FatalLevel,
	log.LvlError: logrus.ErrorLevel,
	log.LvlWarn:  logrus.WarnLevel,
	log.LvlInfo:  logrus.InfoLevel,
	log.LvlDebug: logrus.DebugLevel,
	log.LvlTrace: logrus.TraceLevel,
}

var levelMapReverse = map[logrus.Level]log.Lvl{
	logrus.PanicLevel: log.LvlCrit,
	logrus.FatalLevel: log.LvlCrit,
	logrus.ErrorLevel: log.LvlError,
	logrus.WarnLevel:  log.LvlWarn,
	logrus.InfoLevel:  log.LvlInfo,
	logrus.DebugLevel: log.LvlDebug,
	logrus.TraceLevel: log.LvlTrace,
}

// InitializeEthLog routes go-ethereum logs (rpc server, abi) into the given logrus entry.
func InitializeEthLog(logger *logrus.Entry) {
	log.Root().SetHandler(log.LvlFilterHandler(levelMapReverse[logger.Logger.GetLevel()], &LogrusHandler{Logger: logger}))
}

type LogrusHandler struct {
	Logger *logrus.Entry
}

func (h *LogrusHandler) Log(r *log.Record) error {
	level, ok := levelMap[r.Lvl]
	if !ok {
		level = logrus.InfoLevel
	}
	fields := make(logrus.Fields, len(r.Ctx)/2)
	for i := 0; i+1 < len(r.Ctx); i += 2 {
		key, ok := r.Ctx[i].(string)
		if !ok {
			continue
		}
		fields[key] = r.Ctx[i+1]
	}
	// fatal would exit the process, crit records are logged as errors
	if level == logrus.FatalLevel {
		level = logrus.ErrorLevel
	}
	h.Logger.WithTime(r.Time).WithFields(fields).Log(level, r.Msg)
	return nil
}
