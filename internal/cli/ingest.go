package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"example.com/actiontracker/internal/tracker"
)

const maxLineBytes = 1 << 20

type ingestOptions struct {
	strict bool
}

func newIngestCmd() *cobra.Command {
	opts := ingestOptions{}
	cmd := &cobra.Command{
		Use:   "ingest [file...]",
		Short: "Ingest newline-delimited action records and print stats",
		Long:  "Reads one JSON action record per line from the given files, or stdin when none are given. Rejected lines are reported on stderr; the stats report is printed on stdout.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, args, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "stop at the first rejected record")
	return cmd
}

func runIngest(cmd *cobra.Command, paths []string, opts ingestOptions) error {
	t := tracker.New()
	rejected := 0

	ingest := func(name string, r io.Reader) error {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		line := 0
		for scanner.Scan() {
			line++
			raw := strings.TrimSpace(scanner.Text())
			if raw == "" {
				continue
			}
			if err := t.AddAction(raw); err != nil {
				rejected++
				if _, werr := fmt.Fprintf(cmd.ErrOrStderr(), "%s line %d: %v\n", name, line, err); werr != nil {
					return werr
				}
				if opts.strict {
					return fmt.Errorf("%s line %d: %w", name, line, err)
				}
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		return nil
	}

	if len(paths) == 0 {
		if err := ingest("stdin", cmd.InOrStdin()); err != nil {
			return err
		}
	}
	for _, path := range paths {
		if err := ingestFile(path, ingest); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(cmd.OutOrStdout(), t.GetStats()); err != nil {
		return err
	}
	if rejected > 0 {
		_, err := fmt.Fprintf(cmd.ErrOrStderr(), "%d record(s) rejected\n", rejected)
		return err
	}
	return nil
}

func ingestFile(path string, ingest func(string, io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ingest(path, f)
}
