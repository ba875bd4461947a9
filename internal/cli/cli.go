// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

// Package cli implements the framemeta command.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/bep/framemeta"
	"github.com/bep/framemeta/internal/logging"
	"github.com/bep/framemeta/internal/server"
	"github.com/bep/framemeta/internal/watcher"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "v0.1.0-DEV"

// Result is written for each extracted file.
type Result struct {
	Path        string                `json:"path"`
	Brand       framemeta.CameraBrand `json:"brand"`
	DisplayName string                `json:"displayName"`
	framemeta.ExifData
}

func newResult(path string, d framemeta.ExifData) Result {
	return Result{
		Path:        path,
		Brand:       d.Brand(),
		DisplayName: d.DisplayName(),
		ExifData:    d,
	}
}

// Root holds the state shared by the sub commands.
type Root struct {
	stdout io.Writer
	stderr io.Writer

	logLevel        string
	logFormat       string
	location        string
	followExifIFD   bool
	relativeOffsets bool
	limitNumTags    uint32
	limitTagSize    uint32

	log *slog.Logger

	// For testing.
	now func() time.Time
}

// New creates a new Root writing results to stdout and logs to stderr.
func New(stdout, stderr io.Writer) *Root {
	return &Root{
		stdout: stdout,
		stderr: stderr,
	}
}

// Run executes the command line in args.
func (r *Root) Run(ctx context.Context, args []string) error {
	cmd := r.newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(r.stdout)
	cmd.SetErr(r.stderr)
	return cmd.ExecuteContext(ctx)
}

func (r *Root) newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "framemeta",
		Short: "Extract camera and exposure metadata from JPEG files",
		Long: `framemeta reads the EXIF block of JPEG files and prints the camera,
aperture, shutter speed, ISO, focal length and capture time as JSON.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			r.log = logging.New(r.stderr, r.logLevel, r.logFormat)
			if r.location != "" {
				if _, err := time.LoadLocation(r.location); err != nil {
					return fmt.Errorf("invalid --location: %w", err)
				}
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&r.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.StringVar(&r.logFormat, "log-format", "text", "log format (text, json)")
	flags.StringVar(&r.location, "location", "", "time zone of the EXIF date/time values, e.g. Europe/Oslo (default local)")
	flags.BoolVar(&r.followExifIFD, "follow-exif-ifd", false, "also read the Exif sub-IFD")
	flags.BoolVar(&r.relativeOffsets, "tiff-relative-offsets", false, "read value offsets relative to the TIFF header, as most cameras write them")
	flags.Uint32Var(&r.limitNumTags, "limit-num-tags", 0, "maximum number of entries read from a directory (default 5000)")
	flags.Uint32Var(&r.limitTagSize, "limit-tag-size", 0, "maximum tag value size in bytes (default 10000)")

	rootCmd.AddCommand(r.newExtractCmd())
	rootCmd.AddCommand(r.newServeCmd())
	rootCmd.AddCommand(r.newWatchCmd())
	rootCmd.AddCommand(r.newVersionCmd())

	return rootCmd
}

// options returns the extraction options set by the flags.
// The location has already been validated.
func (r *Root) options() framemeta.Options {
	opts := framemeta.Options{
		Warnf:               logging.Warnf(r.log),
		Now:                 r.now,
		FollowExifIFD:       r.followExifIFD,
		TIFFRelativeOffsets: r.relativeOffsets,
		LimitNumTags:        r.limitNumTags,
		LimitTagSize:        r.limitTagSize,
	}
	if r.location != "" {
		opts.Location, _ = time.LoadLocation(r.location)
	}
	return opts
}

func (r *Root) newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract FILE...",
		Short: "Print the metadata of one or more JPEG files as JSON lines",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, filename := range args {
				d, err := r.extractFile(filename)
				if err != nil {
					return err
				}
				if err := enc.Encode(newResult(filename, d)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (r *Root) extractFile(filename string) (framemeta.ExifData, error) {
	f, err := os.Open(filename)
	if err != nil {
		return framemeta.ExifData{}, err
	}
	defer f.Close()

	opts := r.options()
	opts.Warnf = logging.Warnf(r.log, "path", filename)
	return framemeta.ExtractFrom(f, opts), nil
}

func (r *Root) newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve POST /exif over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.New(addr, r.options(), r.log).Start(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}

func (r *Root) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch DIR...",
		Short: "Print the metadata of JPEG files as they are written to DIR",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := watcher.New(args, r.options(), r.log)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			return w.Run(cmd.Context(), func(e watcher.Event) error {
				return enc.Encode(newResult(e.Path, e.Data))
			})
		},
	}
}

func (r *Root) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("framemeta " + Version)
		},
	}
}
