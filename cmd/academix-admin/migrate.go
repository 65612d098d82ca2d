package main

import "context"

func (cli *commandLine) migrate(args []string) error {
	return cli.migrator.Run(context.Background(), cli.db, args[0], args[1:]...)
}
