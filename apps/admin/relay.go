package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/akademflow/backend/core/relay"
	messagingsvc "github.com/akademflow/backend/services/messaging"
)

func (cli *commandLine) relay(stage, field, path, fileType, submitter string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading document")
	}

	transport := cli.transport
	if transport == nil {
		if transport, err = messagingsvc.NewTelegramService(cli.conf); err != nil {
			return err
		}
	}

	svc := relay.NewService(cli.conf, cli.routes, transport, logger)
	receipt, err := svc.Relay(context.Background(), relay.Document{
		Filename:  filepath.Base(path),
		Content:   content,
		Stage:     stage,
		Field:     field,
		FileType:  fileType,
		Submitter: submitter,
	})
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(receipt, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding receipt")
	}
	fmt.Fprintln(cli.out, string(data))
	return nil
}
