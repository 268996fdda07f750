package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/carbonctrl/carbonctrl/internal/clock"
	"github.com/carbonctrl/carbonctrl/internal/config"
	"github.com/carbonctrl/carbonctrl/internal/migration"
	"github.com/carbonctrl/carbonctrl/internal/observability"
	"github.com/carbonctrl/carbonctrl/internal/server"
	"github.com/carbonctrl/carbonctrl/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(newSnowflakeNode),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)

	app.Run()
}

func newSnowflakeNode() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
