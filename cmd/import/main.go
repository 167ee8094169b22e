package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Roma7-7-7/lawhelp-bot/internal/app"
	"github.com/Roma7-7-7/lawhelp-bot/internal/dal"
	"github.com/Roma7-7-7/lawhelp-bot/internal/data"
)

const (
	exitCodeOK int = iota
	exitCodeValidate
	exitCodeOpen
	exitCodeRepoCreate
	exitCodeInsert
	exitCodeParse
)

var (
	source     string //nolint:gochecknoglobals // cli flags
	dataDir    string //nolint:gochecknoglobals // cli flags
	collection string //nolint:gochecknoglobals // cli flags
	dev        bool   //nolint:gochecknoglobals // cli flags
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	os.Exit(run(ctx))
}

func run(ctx context.Context) int {
	if err := validate(); err != nil {
		fmt.Println(err) //nolint:forbidigo // cli output
		return exitCodeValidate
	}

	log := app.MustLogger(dev)

	in, err := os.Open(source)
	if err != nil {
		log.ErrorContext(ctx, "failed to open source", "source", source, "error", err)
		return exitCodeOpen
	}

	repo, err := dal.NewJSONRepository(dataDir, dal.Options{}, log)
	if err != nil {
		in.Close()
		log.ErrorContext(ctx, "failed to create repository", "error", err)
		return exitCodeRepoCreate
	}

	records := make(chan dal.Record)
	parseErr := make(chan error, 1)
	go func() {
		parseErr <- data.Parse(ctx, in, records)
	}()

	c := dal.Collection(collection)
	imported := 0
	for r := range records {
		if err = repo.CreateRecord(ctx, c, r); err != nil {
			log.ErrorContext(ctx, "failed to create record", "ru", r.Text("ru"), "error", err)
			// drain so the parser can finish
			for range records { //nolint:revive // draining
			}
			return exitCodeInsert
		}
		imported++
	}

	if err = <-parseErr; err != nil {
		var pErr *data.ParsingError
		if errors.As(err, &pErr) {
			log.WarnContext(ctx, "some lines were skipped", "imported", imported, "invalid_lines", pErr.InvalidLines)
			return exitCodeParse
		}
		log.ErrorContext(ctx, "failed to parse source", "imported", imported, "error", err)
		return exitCodeParse
	}

	log.InfoContext(ctx, "done", "collection", collection, "imported", imported)
	return exitCodeOK
}

func validate() error {
	if source == "" {
		return errors.New("source file is required")
	}

	if dataDir == "" {
		return errors.New("data dir is required")
	}

	if !dal.Collection(collection).Valid() {
		return fmt.Errorf("collection must be one of %v", dal.Collections())
	}

	return nil
}

func init() {
	flag.StringVar(&source, "source", "", "source file with one ru|en|zh|ko record per line")
	flag.StringVar(&dataDir, "data-dir", "./data", "content data dir")
	flag.StringVar(&collection, "collection", string(dal.CollectionTerms), "target collection: terms, tips or docs")
	flag.BoolVar(&dev, "dev", false, "human readable debug logs")
	flag.Parse()
}
