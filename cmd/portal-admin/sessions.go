package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clientus/portal/internal/bootstrap"
	domainauth "github.com/clientus/portal/internal/domain/auth"
)

const sessionKeyPattern = "session:*"

type purgeSessionsOptions struct {
	Email  string
	DryRun bool
}

func runPurgeSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parsePurgeSessionsFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, 2*time.Minute)
	defer cancel()

	redisClient, err := bootstrap.ConnectRedis(cmdCtx.Config.Redis, cmdCtx.Logger)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if cerr := redisClient.Close(); cerr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", cerr)
		}
	}()

	cmdCtx.Logger.Info("scanning redis", "pattern", sessionKeyPattern, "dry_run", opts.DryRun)

	stats, err := purgeSessionKeys(ctx, redisClient, opts)
	if err != nil {
		return err
	}

	if stats.scanned == 0 {
		return writeln(os.Stdout, "No sessions found in Redis")
	}
	if opts.DryRun {
		return writef(os.Stdout, "Dry-run: would delete %d/%d sessions\n", stats.matched, stats.scanned)
	}
	return writef(os.Stdout, "Deleted %d/%d sessions\n", stats.deleted, stats.scanned)
}

type purgeSessionStats struct {
	scanned int
	matched int
	deleted int64
}

func purgeSessionKeys(
	ctx context.Context,
	client redis.UniversalClient,
	opts purgeSessionsOptions,
) (purgeSessionStats, error) {
	var stats purgeSessionStats

	iter := client.Scan(ctx, 0, sessionKeyPattern, 100).Iterator()
	batch := make([]string, 0, 100)

	for iter.Next(ctx) {
		key := iter.Val()
		stats.scanned++

		if opts.Email != "" {
			match, err := sessionMatchesEmail(ctx, client, key, opts.Email)
			if err != nil {
				return stats, err
			}
			if !match {
				continue
			}
		}

		stats.matched++
		batch = append(batch, key)
		if len(batch) == cap(batch) {
			if err := flushSessionBatch(ctx, client, opts, batch, &stats); err != nil {
				return stats, err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return stats, fmt.Errorf("redis scan: %w", err)
	}

	if err := flushSessionBatch(ctx, client, opts, batch, &stats); err != nil {
		return stats, err
	}
	return stats, nil
}

func flushSessionBatch(
	ctx context.Context,
	client redis.UniversalClient,
	opts purgeSessionsOptions,
	batch []string,
	stats *purgeSessionStats,
) error {
	if len(batch) == 0 || opts.DryRun {
		return nil
	}
	n, err := client.Del(ctx, batch...).Result()
	if err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	stats.deleted += n
	return nil
}

// sessionMatchesEmail loads one session snapshot and compares its email.
// Keys that vanish mid-scan or hold unreadable payloads are skipped.
func sessionMatchesEmail(
	ctx context.Context,
	client redis.UniversalClient,
	key string,
	email string,
) (bool, error) {
	payload, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var sess domainauth.Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return false, nil
	}
	return strings.EqualFold(sess.Email, email), nil
}

func parsePurgeSessionsFlags(args []string) (purgeSessionsOptions, error) {
	fs := flag.NewFlagSet("purge-sessions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts purgeSessionsOptions
	fs.StringVar(&opts.Email, "email", "", "Only purge sessions belonging to this email (default: all sessions)")
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Print what would be deleted without deleting")

	if err := fs.Parse(args); err != nil {
		return purgeSessionsOptions{}, err
	}

	opts.Email = strings.TrimSpace(opts.Email)
	return opts, nil
}
