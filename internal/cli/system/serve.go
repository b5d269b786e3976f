package system

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/julianstephens/cleanstreak/internal/api"
	"github.com/julianstephens/cleanstreak/internal/cli"
)

type ServeCmd struct {
	Port string `help:"Port to listen on (default from CLEANSTREAK_API_PORT or 8080)."`
	Host string `help:"Interface to bind." default:"127.0.0.1"`
}

func (cmd *ServeCmd) Run(ctx *cli.Context) error {
	secret, err := signingSecret(ctx)
	if err != nil {
		return err
	}

	port := cmd.Port
	if port == "" {
		port = ctx.Config.APIPort
	}
	srv, err := api.New(ctx.Tracker, ctx.Users, ctx.Content, api.Options{
		Addr:        cmd.Host + ":" + port,
		JWTSecret:   secret,
		TokenTTL:    ctx.Config.TokenTTL,
		CORSOrigins: ctx.Config.CORSOrigins,
	})
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Serving the cleanstreak API on http://%s:%s (Ctrl+C to stop)\n", cmd.Host, port)
	return srv.Run(runCtx)
}
