// Package main provides the entry point for the Ridge Compare application.
package main

import (
	"log"
	"os"

	"ridgecompare/internal/config"
	"ridgecompare/internal/logging"
	"ridgecompare/internal/plane"
	"ridgecompare/internal/session"
	"ridgecompare/internal/version"
	"ridgecompare/ui/mainwindow"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Config load failed, using defaults: %v", err)
		cfg = config.Default()
	}

	closer, err := logging.Setup(cfg.Log)
	if err != nil {
		log.Printf("Log file setup failed, logging to stderr only: %v", err)
	} else {
		defer closer.Close()
	}

	log.Printf("Starting Ridge Compare v%s (%s)", version.Version, version.GitCommit)

	sess := session.New(cfg)
	defer sess.Close()

	fyneApp := app.NewWithID("ridgecompare")
	win := mainwindow.New(fyneApp, sess)
	win.Resize(fyne.NewSize(1400, 900))

	// Image paths on the command line land on the left and right sides.
	args := os.Args[1:]
	if len(args) > 0 {
		if err := sess.LoadSide(plane.SideLeft, args[0]); err != nil {
			log.Printf("Failed to load %s: %v", args[0], err)
		}
	}
	if len(args) > 1 {
		if err := sess.LoadSide(plane.SideRight, args[1]); err != nil {
			log.Printf("Failed to load %s: %v", args[1], err)
		}
	}

	win.ShowAndRun()
}
