package main

import (
	"fmt"
	"sort"
)

func (cli *commandLine) printRoutes() error {
	stages := cli.routes.Stages()
	if len(stages) == 0 {
		fmt.Fprintf(cli.out, "no routes in %s\n", cli.conf.Routing.File)
		return nil
	}
	for _, stage := range stages {
		route, _ := cli.routes.Route(stage)
		fmt.Fprintf(cli.out, "%s\tchat %s\n", stage, route.ChatID)

		fields := make([]string, 0, len(route.Topics))
		for field := range route.Topics {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			fmt.Fprintf(cli.out, "  %s\ttopic %s\n", field, route.Topics[field])
		}
	}
	return nil
}
