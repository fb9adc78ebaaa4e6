// Command huffcode builds a Huffman code for a line of text and prints the
// encoded result, or serves the same operations over HTTP.
//
// Usage:
//
//	huffcode [flags] [encode]
//	huffcode [flags] serve
//
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/icza/bitio"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	huffman "github.com/chronos-tachyon/huffcode"
	"github.com/chronos-tachyon/huffcode/internal/config"
	"github.com/chronos-tachyon/huffcode/internal/logging"
	"github.com/chronos-tachyon/huffcode/internal/server"
	"github.com/chronos-tachyon/huffcode/tokenizer"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		log.Error().Err(err).Msg("huffcode failed")
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	flags := pflag.NewFlagSet("huffcode", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.StringP("config", "c", "", "path to config file")
	text := flags.StringP("text", "t", "", "text to encode (default: read one line from stdin)")
	config.RegisterFlags(flags)
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage:\n  huffcode [flags] [encode]\n  huffcode [flags] serve\n\nFlags:\n")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log, stderr)
	if err != nil {
		return err
	}
	log.Logger = logger

	command := "encode"
	if flags.NArg() > 0 {
		command = flags.Arg(0)
	}

	switch command {
	case "encode":
		input := *text
		if !flags.Changed("text") {
			if input, err = readLine(stdin); err != nil {
				return err
			}
		}
		return runEncode(cfg, input, stdout)
	case "serve":
		return runServe(cfg, logger)
	default:
		flags.Usage()
		return fmt.Errorf("unknown command: %q", command)
	}
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

type encodeOutput struct {
	Codes   huffman.Dictionary `json:"codes"`
	Encoded string             `json:"encoded"`
	Bits    int                `json:"bits"`
	Tokens  int                `json:"tokens"`
}

func runEncode(cfg *config.Config, text string, out io.Writer) error {
	if cfg.Input.Trim {
		text = strings.TrimSpace(text)
	}
	log.Debug().Int("bytes", len(text)).Msg("Read input")

	vocabulary, err := resolveVocabulary(cfg.Input, text)
	if err != nil {
		return err
	}

	result, err := tokenizer.Tokenize(text, vocabulary)
	if err != nil {
		return err
	}

	tree, err := huffman.Build(result.Counts)
	if err != nil {
		return err
	}
	dict := tree.Dictionary()
	log.Debug().
		Int("symbols", dict.Len()).
		Int("tokens", len(result.Tokens)).
		Int("min_bits", dict.MinSize()).
		Int("max_bits", dict.MaxSize()).
		Msg("Built code")
	if dict.Len() == 1 {
		log.Warn().Msg("Single-symbol alphabet: its code is empty, so the encoded output is empty")
	}

	enc := huffman.NewEncoder(dict)
	switch cfg.Output.Format {
	case config.FormatJSON:
		encoded, err := enc.Encode(result.Tokens)
		if err != nil {
			return err
		}
		return json.NewEncoder(out).Encode(encodeOutput{
			Codes:   dict,
			Encoded: encoded,
			Bits:    len(encoded),
			Tokens:  len(result.Tokens),
		})

	case config.FormatPacked:
		if cfg.Output.ShowCodes {
			dumpCodes(log.Logger, dict)
		}
		w := bitio.NewWriter(out)
		n, err := enc.EncodeTo(w, result.Tokens)
		if err != nil {
			return err
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("failed to flush output: %w", err)
		}
		log.Debug().Int64("bits", n).Msg("Wrote packed output")
		return nil

	default:
		encoded, err := enc.Encode(result.Tokens)
		if err != nil {
			return err
		}
		if cfg.Output.ShowCodes {
			if _, err := dict.Dump(out); err != nil {
				return err
			}
		}
		_, err = fmt.Fprintln(out, encoded)
		return err
	}
}

// dumpCodes logs the dictionary, for output formats that leave no room for it
// on stdout.
func dumpCodes(logger zerolog.Logger, dict huffman.Dictionary) {
	for _, symbol := range dict.Symbols() {
		hc, _ := dict.Lookup(symbol)
		logger.Info().Str("symbol", string(symbol)).Str("code", hc.Digits()).Msg("Code")
	}
}

func resolveVocabulary(in config.InputConfig, text string) ([]string, error) {
	switch {
	case len(in.Vocabulary) != 0:
		return in.Vocabulary, nil
	case in.VocabularyFile != "":
		return readVocabularyFile(in.VocabularyFile)
	default:
		return tokenizer.Characters(text), nil
	}
}

// readVocabularyFile reads one token per line.  Lines are taken verbatim, so
// tokens may contain spaces; blank lines are ignored.
func readVocabularyFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vocabulary file: %w", err)
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSuffix(scanner.Text(), "\r"); line != "" {
			out = append(out, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}
	return out, nil
}

func runServe(cfg *config.Config, logger zerolog.Logger) error {
	s, err := server.New(cfg.Server, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- s.Start()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		logger.Info().Msg("Received signal, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error during server shutdown: %w", err)
	}
	logger.Info().Msg("Server stopped")
	return nil
}
