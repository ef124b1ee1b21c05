// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package main

import (
	"flag"

	"github.com/curioswitch/go-build"
	"github.com/goyek/goyek/v3"
	"github.com/goyek/x/boot"
	"github.com/goyek/x/cmd"
)

func main() {
	project := flag.String("project", "", "Google Cloud project to seed recipes into.")
	seedURLs := flag.String("seed-urls", "seed/urls.txt", "File with recipe pages to import.")

	goyek.Define(goyek.Task{
		Name:  "import-seed",
		Usage: "Imports seed recipes into the project and infers missing cook times and difficulties.",
		Action: func(a *goyek.A) {
			if *project == "" {
				a.Fatal("-project is required")
			}
			cmd.Exec(a, "go run ./cmd/hamatconctl import --project "+*project+" --file "+*seedURLs)
			cmd.Exec(a, "go run ./cmd/hamatconctl backfill --project "+*project)
		},
	})

	goyek.Define(goyek.Task{
		Name:  "list-seed",
		Usage: "Lists seed recipes of the project.",
		Action: func(a *goyek.A) {
			if *project == "" {
				a.Fatal("-project is required")
			}
			cmd.Exec(a, "go run ./cmd/hamatconctl recipes --owner seed --project "+*project)
		},
	})

	build.DefineTasks()
	boot.Main()
}
