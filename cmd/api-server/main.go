package main

import (
	"Rewards/config"
	"Rewards/pkg/database"
	"Rewards/pkg/jwt"
	"Rewards/pkg/log"
	"Rewards/pkg/server"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	// .env 不存在时忽略
	_ = godotenv.Load()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	var cfg *config.Config
	cliApp := &cli.App{
		Name:  "api-server",
		Usage: "rewards points and referral service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   fmt.Sprintf("configs/config.%s.yaml", env),
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Before: func(ctx *cli.Context) error {
			cfg = config.New(ctx.String("config"))
			log.SetLevel(cfg.Log.Level)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start http server",
				Action: func(ctx *cli.Context) error {
					return server.Run(ctx, InitServer(cfg))
				},
			},
			{
				Name:  "migrate",
				Usage: "create or update tables",
				Action: func(ctx *cli.Context) error {
					if err := database.Migrate(database.NewDB(cfg)); err != nil {
						return err
					}
					log.L.Info("migrate success")
					return nil
				},
			},
			{
				Name:  "worker",
				Usage: "run scheduled jobs",
				Action: func(ctx *cli.Context) error {
					return server.RunWorker(ctx, InitWorker(cfg))
				},
			},
			{
				Name:  "token",
				Usage: "issue an access token for local testing",
				Flags: []cli.Flag{
					&cli.Uint64Flag{Name: "uid", Required: true},
					&cli.StringFlag{Name: "role", Value: jwt.RoleUser},
					&cli.DurationFlag{Name: "ttl", Value: 0},
				},
				Action: func(ctx *cli.Context) error {
					ttl := ctx.Duration("ttl")
					if ttl <= 0 {
						ttl = time.Duration(cfg.Jwt.ExpiresIn) * time.Second
					}
					token, err := jwt.GenerateToken([]byte(cfg.Jwt.Secret), ctx.Uint64("uid"), ctx.String("role"), jwt.TypeAccess, ttl)
					if err != nil {
						return err
					}
					fmt.Println(token)
					return nil
				},
			},
		},
	}
	if err := cliApp.Run(os.Args); err != nil {
		log.L.Fatal("failed to start server", zap.Error(err))
	}
}
