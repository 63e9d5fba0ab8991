/*
Package main implements the wordstat command.

wordstat loads text files where every line is a word, counts how often each
word appears and compares the vocabulary of a reference book with the others.

# Usage

Start the interactive menu, optionally with books already in the list:

	wordstat books/ethique.txt books/reforme.txt

Print a report and exit. --ref is the 1-based position of the reference book
among the arguments:

	wordstat count --ref 1 a.txt b.txt
	wordstat top --ref 2 -n 10 a.txt b.txt
	wordstat unique --ref 1 a.txt b.txt c.txt
	wordstat overlap --ref 1 a.txt b.txt c.txt
	wordstat prefix --ref 1 --prefix ch a.txt

Serve msgpack requests on stdin/stdout, see package server for the protocol:

	wordstat serve a.txt b.txt

# Configuration

The config file is created with defaults the first time wordstat runs, see
package config. --config points to another file and `wordstat config path`
prints the one in use.

# Flags

	-c, --config string   config file path
	-d, --debug           debug logging with timestamps
	    --no-color        never color the output
*/
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "wordstat"
	gh      = "https://github.com/bastiangx/wordstat"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

func main() {
	sigHandler()
	if err := newRootCommand().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
