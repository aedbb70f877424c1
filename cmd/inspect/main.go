package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/kvoloboi/staticinfo/internal/application/sink/reportlog"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var (
		path    string
		asJSON  bool
		session string
	)
	flag.StringVar(&path, "log", "./staticinfo.wal", "report log to read")
	flag.BoolVar(&asJSON, "json", false, "print one JSON object per report")
	flag.StringVar(&session, "session", "", "only show reports from this session")
	flag.Parse()

	if err := run(path, session, asJSON, os.Stdout); err != nil {
		logger.Error("inspect failed", "path", path, "err", err)
		os.Exit(1)
	}
}

func run(path, session string, asJSON bool, out io.Writer) error {
	r, err := reportlog.NewBatchReader(path)
	if err != nil {
		return err
	}
	defer r.Close()

	p := newPrinter(out, asJSON)
	for {
		records, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("batch %d: %w", p.batches, err)
		}

		p.batches++
		for _, rec := range records {
			if session != "" && rec.Session.String() != session {
				continue
			}
			if err := p.print(rec); err != nil {
				return err
			}
		}
	}

	return p.summary()
}
