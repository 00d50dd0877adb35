package jsonrpc

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/samarabdelhameed/aawallet-test/api/jsonrpc/namespaces/aa"
	"github.com/samarabdelhameed/aawallet-test/internal/executor"
	"github.com/samarabdelhameed/aawallet-test/pkg/loggers"
	"github.com/samarabdelhameed/aawallet-test/pkg/repo"
)

const (
	aaNamespace = "aa"

	apiVersion = "1.0"
)

// API describes the set of methods offered over the RPC interface
type API struct {
	Namespace string
	Service   any
}

type ChainBrokerService struct {
	config    repo.JsonRPC
	rep       *repo.Repo
	exec      executor.Executor
	server    *rpc.Server
	logger    logrus.FieldLogger
	listener  net.Listener
	http      *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	listenErr chan error
}

func NewChainBrokerService(exec executor.Executor, rep *repo.Repo) (*ChainBrokerService, error) {
	ctx, cancel := context.WithCancel(context.Background())

	cbs := &ChainBrokerService{
		logger:    loggers.Logger(loggers.API),
		config:    rep.Config.JsonRPC,
		rep:       rep,
		exec:      exec,
		ctx:       ctx,
		cancel:    cancel,
		listenErr: make(chan error, 1),
	}

	if err := cbs.init(); err != nil {
		cancel()
		return nil, err
	}

	return cbs, nil
}

func (cbs *ChainBrokerService) init() error {
	cbs.server = rpc.NewServer()

	for _, api := range cbs.apis() {
		if err := cbs.server.RegisterName(api.Namespace, api.Service); err != nil {
			return errors.Wrapf(err, "register %s namespace", api.Namespace)
		}
	}

	router := mux.NewRouter()
	router.Handle("/", cbs.server).Methods(http.MethodPost, http.MethodOptions)
	router.HandleFunc("/health", cbs.health).Methods(http.MethodGet)
	if cbs.rep.Config.Monitor.Enable {
		router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}

	handler := cors.New(cors.Options{
		AllowedOrigins: cbs.config.CorsAllowOrigin,
		AllowedMethods: []string{http.MethodPost, http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         600,
	}).Handler(router)

	cbs.http = &http.Server{
		Handler:      handler,
		ReadTimeout:  cbs.config.ReadTimeout.ToDuration(),
		WriteTimeout: cbs.config.WriteTimeout.ToDuration(),
	}
	return nil
}

func (cbs *ChainBrokerService) apis() []API {
	return []API{
		{
			Namespace: aaNamespace,
			Service:   aa.NewAAAPI(cbs.rep, cbs.exec, cbs.logger),
		},
	}
}

func (cbs *ChainBrokerService) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = fmt.Fprintf(w, `{"status":"ok","version":%q,"state_version":%d}`, apiVersion, cbs.exec.Version())
}

func (cbs *ChainBrokerService) Start() error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cbs.rep.Config.Port.JsonRpc))
	if err != nil {
		return errors.Wrap(err, "listen jsonrpc port")
	}
	cbs.listener = listener

	go func() {
		cbs.logger.WithFields(logrus.Fields{
			"address": listener.Addr().String(),
		}).Info("JSON-RPC service started")

		if err := cbs.http.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cbs.logger.WithError(err).Error("JSON-RPC service stopped unexpectedly")
			cbs.listenErr <- err
		}
	}()

	return nil
}

// Addr returns the listening address, valid after Start
func (cbs *ChainBrokerService) Addr() net.Addr {
	if cbs.listener == nil {
		return nil
	}
	return cbs.listener.Addr()
}

func (cbs *ChainBrokerService) Stop() error {
	cbs.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cbs.http.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "shutdown jsonrpc server")
	}
	cbs.server.Stop()

	cbs.logger.Info("JSON-RPC service stopped")

	return nil
}

// ListenErr reports the error stopping the http server
func (cbs *ChainBrokerService) ListenErr() <-chan error {
	return cbs.listenErr
}
