package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/cardex/internal/errors"
	"github.com/hpungsan/cardex/internal/ops"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(env *ops.Env) *cli.App {
	app := &cli.App{
		Name:    "cardex",
		Usage:   "Turn documents into study cards",
		Version: Version,
		Commands: []*cli.Command{
			extractCmd(env),
			uploadCmd(env),
			listCmd(env),
			fetchCmd(env),
			deleteCmd(env),
			exportCmd(env),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func userFlag() cli.Flag {
	return &cli.StringFlag{Name: "user", Aliases: []string{"u"}, Usage: "Card owner (default: config default_user)"}
}

// userID returns the --user flag, or the configured default user.
func userID(c *cli.Context, env *ops.Env) string {
	if u := strings.TrimSpace(c.String("user")); u != "" {
		return u
	}
	if env.Config != nil {
		return env.Config.DefaultUser
	}
	return ""
}

// extractCmd creates the extract command.
func extractCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "Show the cards a file would produce without saving them",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			userFlag(),
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "Category for every card"},
			&cli.StringFlag{Name: "tags", Usage: "Comma-separated tags replacing the generated ones"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidRequest("exactly one file is required"))
			}

			input, err := ops.ReadSource(c.Args().First(), env.Pipeline.MaxFileSize())
			if err != nil {
				return outputError(err)
			}
			input.UserID = userID(c, env)
			input.Category = c.String("category")
			input.Tags = parseTags(c.String("tags"))

			output, err := ops.Preview(c.Context, env, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// uploadCmd creates the upload command. Several files are uploaded as a batch.
func uploadCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "Extract cards from files and save them",
		ArgsUsage: "<file> [file...]",
		Flags: []cli.Flag{
			userFlag(),
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "Category for every card"},
			&cli.StringFlag{Name: "tags", Usage: "Comma-separated tags replacing the generated ones"},
			&cli.StringFlag{Name: "mime", Usage: "Declared MIME type (single file only)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("at least one file is required"))
			}

			files := make([]ops.UploadInput, 0, c.NArg())
			for _, path := range c.Args().Slice() {
				input, err := ops.ReadSource(path, env.Pipeline.MaxFileSize())
				if err != nil {
					return outputError(err)
				}
				files = append(files, input)
			}

			if len(files) == 1 {
				input := files[0]
				input.UserID = userID(c, env)
				input.MIMEType = c.String("mime")
				input.Category = c.String("category")
				input.Tags = parseTags(c.String("tags"))

				output, err := ops.Upload(c.Context, env, input)
				if err != nil {
					return outputError(err)
				}
				return outputJSON(output)
			}

			if c.String("mime") != "" {
				return outputError(errors.NewInvalidRequest("--mime applies to a single file"))
			}
			output, err := ops.UploadBatch(c.Context, env, ops.BatchInput{
				UserID:   userID(c, env),
				Files:    files,
				Category: c.String("category"),
				Tags:     parseTags(c.String("tags")),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List cards, most recently updated first",
		Flags: []cli.Flag{
			userFlag(),
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "Filter by category"},
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "Filter by type (concept|action|quote|checklist|mindmap)"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Maximum results"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Usage: "Skip first N results"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(c.Context, env.DB, ops.ListInput{
				UserID:   userID(c, env),
				Category: c.String("category"),
				Type:     c.String("type"),
				Limit:    c.Int("limit"),
				Offset:   c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// fetchCmd creates the fetch command.
func fetchCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch a card by ID",
		ArgsUsage: "<id>",
		Flags:     []cli.Flag{userFlag()},
		Action: func(c *cli.Context) error {
			output, err := ops.Fetch(c.Context, env.DB, ops.FetchInput{
				UserID: userID(c, env),
				ID:     c.Args().First(),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Permanently delete a card",
		ArgsUsage: "<id>",
		Flags:     []cli.Flag{userFlag()},
		Action: func(c *cli.Context) error {
			output, err := ops.Delete(c.Context, env.DB, ops.DeleteInput{
				UserID: userID(c, env),
				ID:     c.Args().First(),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export cards to a JSONL or HTML file",
		Flags: []cli.Flag{
			userFlag(),
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Output path (default: ~/.cardex/exports/<user>-<timestamp>.jsonl)"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "jsonl|html (default: from path, else jsonl)"},
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "Filter by category"},
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "Filter by type"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Export(c.Context, env.DB, env.Config, ops.ExportInput{
				UserID:   userID(c, env),
				Path:     c.String("path"),
				Format:   c.String("format"),
				Category: c.String("category"),
				Type:     c.String("type"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// outputJSON writes JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var cErr *errors.CardexError
	if stderrors.As(err, &cErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", cErr.Code, cErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// parseTags splits a comma-separated string into a slice of tags.
func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
