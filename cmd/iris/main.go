package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/oliverbestmann/iris/viewer"
)

func main() {
	width := flag.Int("width", 1200, "initial window width")
	height := flag.Int("height", 800, "initial window height")
	verbose := flag.Bool("v", false, "enable debug logging")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	opts := viewer.Options{
		Path:         flag.Arg(0),
		WindowWidth:  *width,
		WindowHeight: *height,
		WindowTitle:  "iris",
	}

	if err := viewer.Run(opts); err != nil {
		slog.Error("Viewer failed", slog.Any("error", err))
		os.Exit(1)
	}
}
