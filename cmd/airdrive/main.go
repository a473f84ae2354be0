/*
airdrive is a command-line client for drives stored in blob storage buckets.

It uses the [autostore] package to open the store named by the credential
URL, so all URL schemes supported by this module can be used.

# Usage

	airdrive [flags] <command> [args]

Run "airdrive help" for the list of commands and flags.

# Configuration

Settings are read from a TOML file (--config, or $AIRDRIVE_CONFIG), then from
the environment, then from flags, with later sources winning:

	credential = "s3://my-bucket/drives?region=eu-west-1"
	drive      = "photos"
	local_dir  = "/home/me/Downloads"
	chunk_size = 4096
	silent     = false
	tracing    = false

The environment variables AIRDRIVE_CREDENTIAL (or AIRDRIVE_CREDENTIAL_FILE)
and AIRDRIVE_DRIVE override the matching keys.

# Examples

	$ airdrive --credential=file:///tmp/drives --drive=d1 create
	level=INFO msg="drive created" drive=d1

	$ airdrive --credential=file:///tmp/drives --drive=d1 -q put ./notes.txt
	$ airdrive --credential=file:///tmp/drives --drive=d1 ls
	notes.txt

	$ airdrive --credential=file:///tmp/drives --drive=d1 cat notes.txt
	these are my notes
*/
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)

	a := &app{}
	err := a.execute(ctx, newRootCmd(a))

	stop()

	if err != nil {
		slog.Error("exiting with error", slog.Any("err", err))
		os.Exit(1)
	}
}
