package main

import (
	"fmt"
	"os"

	"fjacquet/statement-import/cmd/accounts"
	"fjacquet/statement-import/cmd/batch"
	"fjacquet/statement-import/cmd/categorize"
	"fjacquet/statement-import/cmd/detect"
	importcmd "fjacquet/statement-import/cmd/import"
	"fjacquet/statement-import/cmd/parse"
	"fjacquet/statement-import/cmd/requisites"
	"fjacquet/statement-import/cmd/root"
	"fjacquet/statement-import/cmd/serve"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(detect.Cmd)
	root.Cmd.AddCommand(importcmd.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(parse.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(requisites.Cmd)
	root.Cmd.AddCommand(accounts.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
