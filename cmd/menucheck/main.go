package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/terryberlin/carbonmenu/internal/catalog"
	"github.com/terryberlin/carbonmenu/internal/menu"
	"github.com/terryberlin/carbonmenu/pkg/config"
	pkgerrors "github.com/terryberlin/carbonmenu/pkg/errors"
	"github.com/terryberlin/carbonmenu/pkg/logger"
)

// menucheck validates a menu snapshot without starting the API: it parses
// the file, runs the full integrity check and lists every violation. Exit
// code is non-zero when the snapshot would be rejected at startup.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "menucheck"})

	_ = godotenv.Load()

	path := flag.String("menu", os.Getenv(config.EnvMenuPath), "path to the menu snapshot JSON")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "missing -menu (or "+config.EnvMenuPath+")")
		os.Exit(2)
	}

	snapshot, err := menu.Load(*path)
	if err != nil {
		logg.Error(ctx, "failed to parse menu snapshot", err)
		os.Exit(1)
	}

	if _, err := catalog.Build(snapshot); err != nil {
		for _, violation := range violationList(err) {
			fmt.Fprintln(os.Stderr, violation)
		}
		logg.Error(ctx, "menu snapshot failed integrity check", err)
		os.Exit(1)
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"items":       len(snapshot.Items),
		"discounts":   len(snapshot.Discounts),
		"rule_sets":   len(snapshot.DynamicPricing),
		"categories":  len(snapshot.Categories),
		"menu_source": *path,
	})
	logg.Info(ctx, "menu snapshot ok")
}

func violationList(err error) []string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return nil
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		return nil
	}
	violations, ok := details["violations"].([]string)
	if !ok {
		return nil
	}
	return violations
}
