package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/riotkit-org/backup-repository/cmd/app/commands"
	"github.com/riotkit-org/backup-repository/internal/app"
	"github.com/riotkit-org/backup-repository/internal/config"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

func getAuthCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-token",
			Usage: "Create a new access token",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "id",
					Aliases: []string{"i"},
					Usage:   "Predictable token ID (UUID), generated when omitted",
				},
				&cli.StringSliceFlag{
					Name:     "role",
					Aliases:  []string{"r"},
					Required: true,
					Usage:    "Role granted to the token, repeat for more (e.g., upload.backup)",
				},
				&cli.StringSliceFlag{
					Name:    "tag",
					Aliases: []string{"t"},
					Usage:   "Tag the token is allowed to upload with, repeat for more",
				},
				&cli.StringSliceFlag{
					Name:    "mime-type",
					Aliases: []string{"m"},
					Usage:   "Mime type the token is allowed to upload, repeat for more",
				},
				&cli.Int64Flag{
					Name:  "max-file-size",
					Usage: "Maximum size of a single upload in bytes, 0 for the server limit",
				},
				&cli.StringFlag{
					Name:    "expires",
					Aliases: []string{"e"},
					Usage:   "Expiration as RFC3339 time or duration (e.g., 720h)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				userManager, err := container.UserManager()
				if err != nil {
					return err
				}

				return commands.RunCreateToken(
					ctx,
					userManager,
					container.Logger(),
					commands.DefaultIO().Writer,
					commands.CreateTokenOptions{
						ID:          cmd.String("id"),
						Roles:       cmd.StringSlice("role"),
						Tags:        cmd.StringSlice("tag"),
						MimeTypes:   cmd.StringSlice("mime-type"),
						MaxFileSize: cmd.Int64("max-file-size"),
						Expires:     cmd.String("expires"),
						Format:      cmd.String("format"),
					},
				)
			},
		},
		{
			Name:  "revoke-token",
			Usage: "Revoke an access token",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Token ID (UUID)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				userManager, err := container.UserManager()
				if err != nil {
					return err
				}

				return commands.RunRevokeToken(
					ctx,
					userManager,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("id"),
					cmd.String("format"),
				)
			},
		},
	}
}
