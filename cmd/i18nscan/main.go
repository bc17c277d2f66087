// Command i18nscan lists the translation keys used by a front-end source tree
// and, given a locale file, reports the ones it does not define.
//
// Usage:
//
//	i18nscan -root ./web/src [-ext .ts,.tsx] [-locale ./web/src/locales/en.json]
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"communityadmin/internal/i18nscan"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("i18nscan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	root := fs.String("root", ".", "directory to scan")
	exts := fs.String("ext", strings.Join(i18nscan.DefaultExtensions, ","), "comma-separated file extensions")
	locale := fs.String("locale", "", "locale JSON file to check keys against")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))

	keys, err := i18nscan.Scan(*root, strings.Split(*exts, ","))
	if err != nil {
		logger.Error("scan failed", "root", *root, "err", err)
		return 1
	}

	if *locale == "" {
		for _, k := range keys {
			fmt.Fprintln(stdout, k)
		}
		logger.Info("scan complete", "root", *root, "keys", len(keys))
		return 0
	}

	data, err := os.ReadFile(*locale)
	if err != nil {
		logger.Error("read locale", "path", *locale, "err", err)
		return 1
	}
	missing, err := i18nscan.Missing(keys, data)
	if err != nil {
		logger.Error("check locale", "path", *locale, "err", err)
		return 1
	}
	for _, k := range missing {
		fmt.Fprintln(stdout, k)
	}
	if len(missing) > 0 {
		logger.Warn("missing translation keys", "locale", *locale, "missing", len(missing), "keys", len(keys))
		return 1
	}
	logger.Info("all keys translated", "locale", *locale, "keys", len(keys))
	return 0
}
