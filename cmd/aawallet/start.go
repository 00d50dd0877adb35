package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/samarabdelhameed/aawallet-test/internal/app"
	"github.com/samarabdelhameed/aawallet-test/pkg/loggers"
	"github.com/samarabdelhameed/aawallet-test/pkg/repo"
)

func start(ctx *cli.Context) error {
	p, err := getRootPath(ctx)
	if err != nil {
		return err
	}

	if !exist(filepath.Join(p, repo.CfgFileName)) {
		fmt.Println("aawallet is not initialized, please execute 'aawallet config generate' first")
		return nil
	}

	r, err := repo.Load(p)
	if err != nil {
		return err
	}

	appCtx, cancel := context.WithCancel(ctx.Context)
	if err := loggers.Initialize(appCtx, r, true); err != nil {
		cancel()
		return err
	}
	defer cancel()

	log := loggers.Logger(loggers.App)
	printVersion(func(c string) {
		log.Info(c)
	})
	r.PrintNodeInfo(func(c string) {
		log.Info(c)
	})

	var wg sync.WaitGroup
	err = func() error {
		if err := repo.WritePid(r.RepoRoot); err != nil {
			return fmt.Errorf("write pid error: %s", err)
		}

		node, err := app.NewAAWallet(r, appCtx, cancel)
		if err != nil {
			return fmt.Errorf("init aawallet failed: %w", err)
		}

		wg.Add(1)
		handleShutdown(node, &wg)

		if err := node.Start(); err != nil {
			return fmt.Errorf("start aawallet failed: %w", err)
		}

		return nil
	}()
	if err != nil {
		log.WithField("err", err).Error("Startup failed")
		return err
	}

	wg.Wait()

	if err := repo.RemovePID(r.RepoRoot); err != nil {
		log.WithField("err", err).Error("Remove pid failed")
		return fmt.Errorf("remove pid file error: %s", err)
	}

	return nil
}

func handleShutdown(node *app.AAWallet, wg *sync.WaitGroup) {
	var stop = make(chan os.Signal, 2)
	signal.Notify(stop, syscall.SIGTERM)
	signal.Notify(stop, syscall.SIGINT)

	go func() {
		select {
		case <-stop:
			fmt.Println("received interrupt signal, shutting down...")
		case err := <-node.Jsonrpc.ListenErr():
			fmt.Printf("jsonrpc service failed: %s, shutting down...\n", err)
		}
		if err := node.Stop(); err != nil {
			panic(err)
		}
		wg.Done()
	}()
}
