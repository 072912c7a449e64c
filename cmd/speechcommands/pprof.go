package main

import (
	"os"
	"runtime/pprof"
)

var (
	profilePath string
	profileFile *os.File
)

// startProfile collects a CPU profile into profilePath, usable as default.pgo
func startProfile() error {
	if profilePath == "" {
		return nil
	}
	f, err := os.Create(profilePath)
	if err != nil {
		return err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return err
	}
	profileFile = f
	return nil
}

func stopProfile() {
	if profileFile == nil {
		return
	}
	pprof.StopCPUProfile()
	profileFile.Close()
	profileFile = nil
}
