package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
)

func (cli *commandLine) export(stage, field, out string) error {
	buf, err := cli.attendanceSvc.Export(context.Background(), stage, field)
	if err != nil {
		return err
	}
	if out == "" {
		out = field + ".xlsx"
	}
	if err = os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(err, "writing export")
	}
	fmt.Fprintf(cli.out, "exported %s / %s to %s\n", stage, field, out)
	return nil
}
