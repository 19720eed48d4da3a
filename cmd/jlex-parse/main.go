// Command jlex-parse reads one JSON document and either walks it as a
// stream of parse events or builds and prints a value tree.
//
//	jlex-parse --mode=stream [--stackless] [-v] [--trace-id ID] FILE
//	jlex-parse --mode=tree   [--stackless] [-v] [--trace-id ID] [--out FILE] FILE
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lattice-substrate/inplace-json/jcursor"
	"github.com/lattice-substrate/inplace-json/jerr"
	"github.com/lattice-substrate/inplace-json/jevent"
	"github.com/lattice-substrate/inplace-json/jfile"
	"github.com/lattice-substrate/inplace-json/jleaf"
	"github.com/lattice-substrate/inplace-json/jtree"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		if je, ok := err.(*jerr.Error); ok {
			return je.Class.ExitCode()
		}
		return jerr.InternalIO.ExitCode()
	}
	return 0
}

type options struct {
	mode      string
	stackless bool
	verbose   bool
	traceID   string
	out       string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "jlex-parse FILE",
		Short:         "Parse a JSON document as an event stream or a value tree",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return jerr.Wrap(jerr.CLIUsage, -1, err, "arguments")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, opts, args[0])
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return jerr.Wrap(jerr.CLIUsage, -1, err, "flags")
	})

	cmd.Flags().StringVar(&opts.mode, "mode", "tree", "parse mode: stream or tree")
	cmd.Flags().BoolVar(&opts.stackless, "stackless", false, "use the stackless event parser")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	cmd.Flags().StringVar(&opts.traceID, "trace-id", "", "trace id for log correlation (generated if omitted)")
	cmd.Flags().StringVar(&opts.out, "out", "", "write the printed tree to this file atomically instead of stdout (mode=tree only)")

	return cmd
}

func runParse(cmd *cobra.Command, opts *options, path string) error {
	logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{ReportTimestamp: true})
	if opts.verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}

	traceID := opts.traceID
	if traceID == "" {
		traceID = uuid.NewString()
	}
	logger = logger.With("trace_id", traceID)

	switch opts.mode {
	case "stream":
		return runStream(cmd, opts, logger, path)
	case "tree":
		return runTree(cmd, opts, logger, path)
	default:
		return jerr.New(jerr.CLIUsage, -1, "unknown --mode %q, want stream or tree", opts.mode)
	}
}

func runStream(cmd *cobra.Command, opts *options, logger *log.Logger, path string) error {
	buf, err := jfile.ReadForParse(path)
	if err != nil {
		return err
	}
	c := jcursor.New(buf)

	logger.Debug("starting stream parse", "path", path, "stackless", opts.stackless)
	h := &traceHandler{logger: logger}

	parse := jevent.ParseRecursive
	if opts.stackless {
		parse = jevent.ParseStackless
	}
	if err := parse(c, h, nil); err != nil {
		logger.Error("parse failed", "error", err)
		return err
	}
	logger.Debug("stream parse complete", "events", h.count)
	return nil
}

func runTree(cmd *cobra.Command, opts *options, logger *log.Logger, path string) error {
	buf, err := jfile.ReadForParse(path)
	if err != nil {
		return err
	}
	c := jcursor.New(buf)

	logger.Debug("starting tree parse", "path", path, "stackless", opts.stackless)
	var t *jtree.Tree
	if opts.stackless {
		t, err = jtree.ParseStackless(c)
	} else {
		t, err = jtree.Parse(c)
	}
	defer jtree.Finalise(t)
	if err != nil {
		logger.Error("parse failed", "error", err)
		return err
	}

	root, err := t.Root()
	if err != nil {
		return jerr.Wrap(jerr.InternalIO, -1, err, "read parsed tree")
	}

	if opts.out == "" {
		return jtree.Print(cmd.OutOrStdout(), root)
	}

	var sb bytesWriter
	if err := jtree.Print(&sb, root); err != nil {
		return err
	}
	logger.Debug("writing output", "path", opts.out, "bytes", len(sb.buf))
	return jfile.WriteAtomic(opts.out, sb.buf)
}

// bytesWriter is a minimal io.Writer accumulating into a byte slice, so
// jtree.Print's output can be captured before being handed to
// jfile.WriteAtomic as a single atomic write.
type bytesWriter struct {
	buf []byte
}

func (b *bytesWriter) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// traceHandler is a jevent.Handler that logs each event at debug level
// and counts them, used by --mode=stream to make the event sequence
// observable without building a tree.
type traceHandler struct {
	logger *log.Logger
	count  int
}

func (h *traceHandler) Leaf(kind jleaf.Kind, v jleaf.Leaf) error {
	h.count++
	h.logger.Debug("leaf", "kind", kind)
	return nil
}

func (h *traceHandler) Begin(inArray bool) error {
	h.count++
	h.logger.Debug("begin", "array", inArray)
	return nil
}

func (h *traceHandler) ArrayEntry() error {
	h.count++
	h.logger.Debug("array_entry")
	return nil
}

func (h *traceHandler) ObjectEntry(key jcursor.Slice) error {
	h.count++
	h.logger.Debug("object_entry", "key", key.String())
	return nil
}

func (h *traceHandler) End(inArray bool) error {
	h.count++
	h.logger.Debug("end", "array", inArray)
	return nil
}
