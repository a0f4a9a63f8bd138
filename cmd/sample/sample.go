// Package sample implements the sample command.
package sample

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"timelapse-frames/cmd/cmdutil"
	"timelapse-frames/internal/conf"
	"timelapse-frames/internal/library"
	"timelapse-frames/internal/sampler"
	"timelapse-frames/internal/timestamps"
)

// Options are the inputs of a sample run that are not settings.
type Options struct {
	Dir    string // frame directory
	List   string // timestamp list file, alternative to Dir
	Output string
	CopyTo string
}

// Command creates the sample command.
func Command(ctx *conf.Context) *cobra.Command {
	var opts Options

	cmd := &cobra.Command{
		Use:   "sample [dir]",
		Short: "Select one frame per day closest to a fixed hour",
		Long: "Select, for every day spanned by the frames, the frame closest to hour:00\n" +
			"within ±frame minutes. Frames come from dir or from a timestamp list (--list).",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Dir = args[0]
			}
			return Run(ctx.Settings, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.List, "list", "l", "", "Read timestamps from a list file instead of a directory")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output file for the sampled timestamps (default: stdout)")
	cmd.Flags().StringVar(&opts.CopyTo, "copy-to", "", "Copy the selected frames into this directory")
	cmd.Flags().Int("hour", 0, "Target hour of day, 0-23 (default 12)")
	cmd.Flags().Int("frame", 0, "Tolerance around the target hour in minutes (default 5)")
	cmd.Flags().Bool("exclusive-last-day", false, "Never sample the last day of the sequence")
	ctx.RegisterFlags(cmd.Flags(), map[string]string{
		"hour":               "sampler.hour",
		"frame":              "sampler.frame",
		"exclusive-last-day": "sampler.exclusivelastday",
	})

	return cmd
}

// Run samples the frames described by opts with the sampler settings.
func Run(settings *conf.Settings, opts Options, stdout io.Writer) error {
	if (opts.Dir == "") == (opts.List == "") {
		return errors.New("give either a frame directory or --list")
	}
	if opts.CopyTo != "" && opts.Dir == "" {
		return errors.New("--copy-to needs a frame directory")
	}

	loc, err := settings.Location()
	if err != nil {
		return err
	}

	var (
		frames []timestamps.Frame
		ts     []int64
	)
	if opts.Dir != "" {
		frames, err = timestamps.ExtractFrames(opts.Dir)
		if err != nil {
			return err
		}
		ts = timestamps.Values(frames)
	} else {
		ts, err = readList(opts.List)
		if err != nil {
			return err
		}
	}

	sampled, err := sampler.Sample(ts, settings.Sampler.Hour, settings.Sampler.Frame,
		sampler.WithLocation(loc),
		sampler.WithExclusiveLastDay(settings.Sampler.ExclusiveLastDay))
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"timestamps": len(ts),
		"sampled":    len(sampled),
		"hour":       settings.Sampler.Hour,
		"frame":      settings.Sampler.Frame,
	}).Info("Sampled daily frames")

	w, err := cmdutil.Create(opts.Output, stdout)
	if err != nil {
		return err
	}
	if err := timestamps.WriteList(w, sampled); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	if opts.CopyTo == "" {
		return nil
	}

	res, err := library.CopyFrames(timestamps.Select(frames, sampled), opts.CopyTo)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"dir":     opts.CopyTo,
		"copied":  res.Copied,
		"skipped": res.Skipped,
	}).Info("Copied selected frames")

	return nil
}

func readList(path string) ([]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ts, err := timestamps.ReadList(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slices.Sort(ts)
	return ts, nil
}
