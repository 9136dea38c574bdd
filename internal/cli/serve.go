package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/microbeflow/crossfeed/internal/server"
	"github.com/microbeflow/crossfeed/pkg/cache"
	"github.com/microbeflow/crossfeed/pkg/pipeline"
	"github.com/microbeflow/crossfeed/pkg/store"
)

const defaultAddr = ":8080"

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr          string
		configPath    string
		noCache       bool
		redisAddr     string
		redisPassword string
		redisDB       int
		mongoURI      string
		mongoDatabase string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

The server exposes graph creation, retrieval, and rendering endpoints
under /v1. Without --redis it caches to the local filesystem; without
--mongo graphs are stored in memory and lost on shutdown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("addr") && cfg.Server.Addr != "" {
				addr = cfg.Server.Addr
			}
			if !flags.Changed("redis") {
				redisAddr = cfg.Server.RedisAddr
				redisPassword = cfg.Server.RedisPassword
				redisDB = cfg.Server.RedisDB
			}
			if !flags.Changed("mongo") {
				mongoURI = cfg.Server.MongoURI
			}
			if !flags.Changed("mongo-db") && cfg.Server.MongoDatabase != "" {
				mongoDatabase = cfg.Server.MongoDatabase
			}
			return c.runServe(cmd, serveParams{
				addr:          addr,
				noCache:       noCache,
				redisAddr:     redisAddr,
				redisPassword: redisPassword,
				redisDB:       redisDB,
				mongoURI:      mongoURI,
				mongoDatabase: mongoDatabase,
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address for shared caching (host:port)")
	cmd.Flags().StringVar(&redisPassword, "redis-password", "", "redis password")
	cmd.Flags().IntVar(&redisDB, "redis-db", 0, "redis database number")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "mongodb connection URI for persistent graph storage")
	cmd.Flags().StringVar(&mongoDatabase, "mongo-db", "crossfeed", "mongodb database name")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a crossfeed.toml config file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

type serveParams struct {
	addr          string
	noCache       bool
	redisAddr     string
	redisPassword string
	redisDB       int
	mongoURI      string
	mongoDatabase string
}

func (c *CLI) runServe(cmd *cobra.Command, p serveParams) error {
	ctx := cmd.Context()

	cacheImpl, cacheDesc, err := c.serveCache(cmd, p)
	if err != nil {
		return err
	}

	var st store.Store
	storeDesc := "memory"
	if p.mongoURI != "" {
		mongo, err := store.NewMongoStore(ctx, p.mongoURI, p.mongoDatabase)
		if err != nil {
			return fmt.Errorf("connect mongodb: %w", err)
		}
		defer mongo.Close(ctx)
		st = mongo
		storeDesc = "mongodb"
	}

	runner := pipeline.NewRunner(cacheImpl, nil, c.Logger)
	defer runner.Close()

	printKeyValue("address", p.addr)
	printKeyValue("cache", cacheDesc)
	printKeyValue("store", storeDesc)

	srv := server.New(runner, st, c.Logger)
	return srv.ListenAndServe(ctx, p.addr)
}

func (c *CLI) serveCache(cmd *cobra.Command, p serveParams) (cache.Cache, string, error) {
	if p.redisAddr != "" {
		redis, err := cache.NewRedisCache(cmd.Context(), p.redisAddr, p.redisPassword, p.redisDB)
		if err != nil {
			return nil, "", fmt.Errorf("connect redis: %w", err)
		}
		return redis, "redis", nil
	}
	local, err := newCache(p.noCache)
	if err != nil {
		return nil, "", err
	}
	if p.noCache {
		return local, "disabled", nil
	}
	return local, "file", nil
}
