// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package redis_test

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

var (
	redisClient *redis.Client
	redisURL    string
	pool        *dockertest.Pool
	container   *dockertest.Resource
)

func TestMain(m *testing.M) {
	if err := startRedis(); err != nil {
		log.Fatalf("Could not start redis: %s", err)
	}
	purgeOnSignal()

	code := m.Run()

	redisClient.Close()
	if err := pool.Purge(container); err != nil {
		log.Fatalf("Could not purge redis container: %s", err)
	}

	os.Exit(code)
}

// startRedis runs a disposable Redis and waits until it answers pings.
func startRedis() (err error) {
	if pool, err = dockertest.NewPool(""); err != nil {
		return fmt.Errorf("docker unavailable: %w", err)
	}
	pool.MaxWait = time.Minute

	container, err = pool.RunWithOptions(&dockertest.RunOptions{
		Name:       "tests-watchmen-redis-events",
		Repository: "redis",
		Tag:        "7.2.0-alpine",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return err
	}

	redisURL = fmt.Sprintf("redis://localhost:%s/0", container.GetPort("6379/tcp"))
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return err
	}
	redisClient = redis.NewClient(opts)

	return pool.Retry(func() error {
		return redisClient.Ping(ctx).Err()
	})
}

func purgeOnSignal() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		if err := pool.Purge(container); err != nil {
			log.Fatalf("Could not purge redis container: %s", err)
		}
		os.Exit(0)
	}()
}
