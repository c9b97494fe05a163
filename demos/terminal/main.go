// terminal draws the morphing Christmas tree with one glyph per particle.
// Space toggles between the scattered cloud and the tree; q quits.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/arixtree/arixtree"
	"github.com/arixtree/arixtree/term"
	"github.com/gdamore/tcell/v2"
)

func main() {
	configPath := flag.String("config", "", "YAML options file")
	music := flag.String("music", "", "mp3 file to loop in the background (overrides the config)")
	logPath := flag.String("log", "", "write logs to this file instead of discarding them")
	flag.Parse()

	opts := arixtree.DefaultOptions()
	if *configPath != "" {
		var err error
		opts, err = arixtree.LoadOptions(*configPath)
		if err != nil {
			log.Fatal(err)
		}
	}
	if *music != "" {
		opts.Audio.MusicFile = *music
	}

	// The screen owns stdout; logs go to a file or nowhere.
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	if *logPath == "" {
		log.SetOutput(io.Discard)
	}

	scene := arixtree.NewScene()
	if opts.Audio.MusicFile != "" {
		scene.Controller().SetMusic(term.NewBeepMusic(opts.Audio.MusicFile, opts.Audio.Volume))
	}
	app := term.NewApp(screen, scene)
	app.Greeting = opts.Window.Greeting
	app.Subtitle = opts.Window.Subtitle

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = app.Run(ctx)
	stop()
	screen.Fini()
	if err != nil {
		log.Fatal(err)
	}
}
