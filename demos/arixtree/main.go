// arixtree opens a window with the morphing Christmas tree. The tree
// assembles itself after a moment; click the button or press Space to
// scatter and reassemble it. F12 saves a screenshot.
package main

import (
	"flag"
	"log"

	"github.com/arixtree/arixtree"
)

func main() {
	configPath := flag.String("config", "", "YAML options file")
	music := flag.String("music", "", "mp3 file to loop in the background (overrides the config)")
	showFPS := flag.Bool("fps", false, "show the FPS overlay")
	debug := flag.Bool("debug", false, "log per-frame timing stats")
	scriptPath := flag.String("script", "", "JSON script of toggles, waits and screenshots to run")
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
	opts.Debug.ShowFPS = opts.Debug.ShowFPS || *showFPS
	opts.Debug.Stats = opts.Debug.Stats || *debug

	var script *arixtree.ScriptRunner
	if *scriptPath != "" {
		var err error
		script, err = arixtree.LoadScriptFile(*scriptPath)
		if err != nil {
			log.Fatal(err)
		}
	}

	if err := arixtree.Run(opts, script); err != nil {
		log.Fatal(err)
	}
}
