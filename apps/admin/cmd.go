package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/akademflow/backend/core"
	"github.com/akademflow/backend/core/attendance"
	"github.com/akademflow/backend/core/routing"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf          *core.Config
	db            *sql.DB
	routes        *routing.Table
	attendanceSvc *attendance.Service
	transport     core.DocumentTransport // built from a prompted bot token when nil
	out           io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                                 - run a goose command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  routes                                                 - print the stage/field routing table")
	fmt.Fprintln(cli.out, "  export -stage STAGE -field FIELD [-out FILE]           - export a ledger worksheet to xlsx")
	fmt.Fprintln(cli.out, "  relay -stage STAGE -field FIELD -file FILE [-type TYPE] [-submitter NAME]")
	fmt.Fprintln(cli.out, "                                                         - send a document to its routed topic")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	exportCmd := flag.NewFlagSet("export", flag.ContinueOnError)
	exportStage := exportCmd.String("stage", "", "The stage (1-bosqich, 2-bosqich, bakalavr, magistr, ...).")
	exportField := exportCmd.String("field", "", "The field of study (worksheet title).")
	exportOut := exportCmd.String("out", "", "The output file. Defaults to FIELD.xlsx.")

	relayCmd := flag.NewFlagSet("relay", flag.ContinueOnError)
	relayStage := relayCmd.String("stage", "", "The stage of the submitter.")
	relayField := relayCmd.String("field", "", "The field of study of the submitter.")
	relayFile := relayCmd.String("file", "", "The document to send.")
	relayType := relayCmd.String("type", "", "The document type, e.g. Ma'lumotnoma.")
	relaySubmitter := relayCmd.String("submitter", "", "The submitter's name.")

	for _, fs := range []*flag.FlagSet{exportCmd, relayCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "routes":
		return cli.printRoutes()

	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *exportStage == "" || *exportField == "" {
			exportCmd.Usage()
			return errHelp
		}
		return cli.export(*exportStage, *exportField, *exportOut)

	case "relay":
		if err := relayCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *relayStage == "" || *relayField == "" || *relayFile == "" {
			relayCmd.Usage()
			return errHelp
		}
		if cli.transport == nil && cli.conf.Telegram.BotToken == "" {
			fmt.Fprint(cli.out, "Enter bot token:")
			token, err := readPasswordFunc(int(syscall.Stdin))
			fmt.Fprintln(cli.out)
			if err != nil {
				return err
			}
			if len(token) == 0 {
				relayCmd.Usage()
				return errHelp
			}
			cli.conf.Telegram.BotToken = string(token)
		}
		return cli.relay(*relayStage, *relayField, *relayFile, *relayType, *relaySubmitter)

	default:
		cli.printUsage()
		return errHelp
	}
}
