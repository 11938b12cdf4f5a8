//go:build !linux && !tinygo

package main

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/ystepanoff/zbjam/attack"
	"github.com/ystepanoff/zbjam/config"
)

func runLive(context.Context, config.Config, attack.ID, *zap.SugaredLogger) error {
	return errors.New("-live needs a Linux SPI port")
}
