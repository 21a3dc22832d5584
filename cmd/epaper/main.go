package main

import (
	"fmt"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/epaper"
	"github.com/urfave/cli/v2"
)

const defaultDB = "epaper.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func encodeOptions(c *cli.Context, input string) *epaper.EncodeOptions {
	opts := &epaper.EncodeOptions{
		Resize: c.Bool("resize"),
		Blur:   c.Float64("blur"),
	}
	if c.Bool("c-file") {
		opts.CArray = strings.TrimSuffix(input, filepath.Ext(input)) + ".c"
	}
	return opts
}

func main() {
	app := cli.NewApp()

	app.Name = "epaper"
	app.Usage = "7-color e-paper framebuffer utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"EPAPER_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to frame cache database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "encode",
			Usage:       "Encode an image to a packed framebuffer",
			Description: "",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "output path, defaults to FILE with a .bin extension",
				},
				&cli.BoolFlag{
					Name:  "c-file",
					Usage: "also write the frame as a C byte array",
				},
				&cli.BoolFlag{
					Name:  "resize",
					Usage: "scale to the largest supported resolution before encoding",
				},
				&cli.Float64Flag{
					Name:  "blur",
					Usage: "Gaussian pre-blur sigma, 0 disables",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				e, err := epaper.New(c.String("db"), newLogger(c))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer e.Close()

				input := c.Args().First()
				output := c.String("output")
				if output == "" {
					output = strings.TrimSuffix(input, filepath.Ext(input)) + ".bin"
				}

				if err := e.EncodeFile(input, output, encodeOptions(c, input)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "decode",
			Usage:       "Decode a packed framebuffer to a PNG",
			Description: "",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "output path, defaults to FILE with a .png extension",
				},
				&cli.IntFlag{
					Name:  "width",
					Usage: "frame width, overrides inference",
				},
				&cli.IntFlag{
					Name:  "height",
					Usage: "frame height, overrides inference",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				e, err := epaper.New(c.String("db"), newLogger(c))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer e.Close()

				input := c.Args().First()
				output := c.String("output")
				if output == "" {
					output = strings.TrimSuffix(input, filepath.Ext(input)) + ".png"
				}

				if err := e.DecodeFile(input, output, c.Int("width"), c.Int("height")); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "analyze",
			Usage:       "Report palette usage of a packed framebuffer",
			Description: "",
			ArgsUsage:   "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				e, err := epaper.New(c.String("db"), newLogger(c))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer e.Close()

				report, err := e.AnalyzeFile(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				fmt.Print(report)

				return nil
			},
		},
		{
			Name:        "scan",
			Usage:       "Encode every image beneath a directory",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "resize",
					Usage: "scale to the largest supported resolution before encoding",
				},
				&cli.Float64Flag{
					Name:  "blur",
					Usage: "Gaussian pre-blur sigma, 0 disables",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				e, err := epaper.New(c.String("db"), newLogger(c))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer e.Close()

				opts := &epaper.EncodeOptions{
					Resize: c.Bool("resize"),
					Blur:   c.Float64("blur"),
				}

				if err := e.Scan(c.Args().First(), opts); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
